// =============================================================================
// Ventas Semaforo - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing configuration.
//
// CONFIGURATION FILES:
//   1. Base Config (config.yaml): structural settings shipped with the tool
//   2. Editable Config (editable.yaml): user overrides, optional
//
// LAYERING (lowest to highest priority):
//   defaults -> base file -> editable file -> SEMAFORO_* environment
//
// The two files are merged recursively: nested sections are merged key by
// key, any other value in the editable file replaces the base value.
//
// =============================================================================

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/ventas-semaforo/internal/types"
)

// EnvPrefix prefixes every environment override (SEMAFORO_INPUTS_DIR, ...).
const EnvPrefix = "SEMAFORO"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	Inputs  InputsConfig  `yaml:"inputs" mapstructure:"inputs"`
	Columns ColumnsConfig `yaml:"columns" mapstructure:"columns"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// InputsConfig locates the sales and drivers worksheets.
type InputsConfig struct {
	// Dir is the directory holding the input workbooks. It must exist.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Engine selects the workbook reader: "excelize" or "xlsx".
	Engine string `yaml:"engine" mapstructure:"engine"`

	// PreviewRows is the number of rows read before column validation.
	PreviewRows int `yaml:"preview_rows" mapstructure:"preview_rows"`

	Sales   SheetConfig `yaml:"sales" mapstructure:"sales"`
	Drivers SheetConfig `yaml:"drivers" mapstructure:"drivers"`
}

// SheetConfig identifies one worksheet.
type SheetConfig struct {
	// File is relative to InputsConfig.Dir. An empty drivers file reuses the
	// sales workbook.
	File string `yaml:"file" mapstructure:"file"`

	Sheet string `yaml:"sheet" mapstructure:"sheet"`

	// Columns optionally restricts which columns are loaded. The columns
	// named under the columns section are always loaded.
	Columns []string `yaml:"columns" mapstructure:"columns"`
}

// ColumnsConfig maps aliases to real column names, per table.
type ColumnsConfig struct {
	Sales   map[string]string `yaml:"sales" mapstructure:"sales"`
	Drivers map[string]string `yaml:"drivers" mapstructure:"drivers"`
}

// OutputConfig controls the output workbook.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`

	// FileName supports {uuid}, {date}, {time}, {timestamp} and {sales}.
	FileName string `yaml:"file_name" mapstructure:"file_name"`

	Sheet string `yaml:"sheet" mapstructure:"sheet"`

	AltClientLiteralIfFalse bool `yaml:"alt_client_literal_if_false" mapstructure:"alt_client_literal_if_false"`

	Columns OutputColumns `yaml:"columns" mapstructure:"columns"`
}

// OutputColumns names the derived columns in the output sheet.
type OutputColumns struct {
	Status        string `yaml:"status" mapstructure:"status"`
	AltClientCode string `yaml:"alt_client_code" mapstructure:"alt_client_code"`
	AgentCode     string `yaml:"agent_code" mapstructure:"agent_code"`
	AgentName     string `yaml:"agent_name" mapstructure:"agent_name"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

// =============================================================================
// LOADING
// =============================================================================

// LoadOptions names the files Load reads.
type LoadOptions struct {
	// BaseFile is required.
	BaseFile string

	// EditableFile is optional; a missing file is logged and skipped.
	EditableFile string
}

// Load reads, merges and decodes the configuration.
//
// RETURNS:
//   - The decoded configuration, validated.
//   - An error if the base file cannot be read, a file is not valid YAML, or
//     the result fails validation.
func Load(opts LoadOptions) (*Config, error) {
	base, err := readYAMLMap(opts.BaseFile)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read base file %s", opts.BaseFile)
	}

	var editable map[string]any
	if opts.EditableFile != "" {
		if _, statErr := os.Stat(opts.EditableFile); os.IsNotExist(statErr) {
			zap.L().Warn("config: editable file not found, using base configuration only",
				zap.String("path", opts.EditableFile))
		} else if editable, err = readYAMLMap(opts.EditableFile); err != nil {
			return nil, eris.Wrapf(err, "config: read editable file %s", opts.EditableFile)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.MergeConfigMap(DeepMerge(base, editable)); err != nil {
		return nil, eris.Wrap(err, "config: merge")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readYAMLMap decodes a YAML file into a generic map. An empty file yields
// an empty map.
func readYAMLMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read file")
	}

	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrap(err, "parse yaml")
	}
	return out, nil
}

// DeepMerge merges overrides into a copy of base.
//
// When both sides hold a map under the same key the maps are merged
// recursively; otherwise the override value wins. Neither input is modified.
func DeepMerge(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		bm, baseIsMap := out[k].(map[string]any)
		om, overIsMap := v.(map[string]any)
		if baseIsMap && overIsMap {
			out[k] = DeepMerge(bm, om)
			continue
		}
		out[k] = v
	}
	return out
}

// setDefaults registers every default value.
func setDefaults(v *viper.Viper) {
	v.SetDefault("inputs.dir", "./insumos")
	v.SetDefault("inputs.engine", "excelize")
	v.SetDefault("inputs.preview_rows", 2)
	v.SetDefault("inputs.sales.sheet", "Ventas")
	v.SetDefault("inputs.drivers.sheet", "Drivers")

	v.SetDefault("columns.sales", map[string]any{
		types.AliasSaleType:  "Tipo de Venta",
		types.AliasClientKey: "Cliente - Clave",
		types.AliasAgentKey:  "Agente Comercial - Clave",
		types.AliasAgentName: "Agente Comercial",
		types.AliasEcomCode:  "Codigo Ecom",
	})
	v.SetDefault("columns.drivers", map[string]any{
		types.AliasSAPCode:           "Cod SAP",
		types.AliasCorrectedEcomCode: "Cambio Cod ECOM a CRM",
		types.AliasCurrentCode:       "Cod Actual",
		types.AliasAltClientCode:     "Cod Cliente Alt",
		types.AliasSupervisorCode:    "Cod Jefe Ventas",
		types.AliasSupervisorName:    "Jefe Ventas",
	})

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "ventas_homologadas_{timestamp}.xlsx")
	v.SetDefault("output.sheet", "Ventas")
	v.SetDefault("output.alt_client_literal_if_false", false)
	v.SetDefault("output.columns.status", "STATUS")
	v.SetDefault("output.columns.alt_client_code", "COD ECOM FINAL")
	v.SetDefault("output.columns.agent_code", "COD AC FINAL")
	v.SetDefault("output.columns.agent_name", "NOMBRE AC FINAL")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the values the run depends on.
func (c *Config) Validate() error {
	switch c.Inputs.Engine {
	case "excelize", "xlsx":
	default:
		return eris.Errorf("config: inputs.engine must be \"excelize\" or \"xlsx\", got %q", c.Inputs.Engine)
	}
	if c.Inputs.PreviewRows < 0 {
		return eris.Errorf("config: inputs.preview_rows must not be negative, got %d", c.Inputs.PreviewRows)
	}
	if c.Inputs.Sales.File == "" {
		return eris.New("config: inputs.sales.file is required")
	}
	if c.Inputs.Sales.Sheet == "" || c.Inputs.Drivers.Sheet == "" {
		return eris.New("config: inputs.sales.sheet and inputs.drivers.sheet are required")
	}
	if c.Output.Sheet == "" || c.Output.FileName == "" {
		return eris.New("config: output.sheet and output.file_name are required")
	}

	names := map[string]bool{}
	for _, n := range []string{c.Output.Columns.Status, c.Output.Columns.AltClientCode, c.Output.Columns.AgentCode, c.Output.Columns.AgentName} {
		if n == "" {
			return eris.New("config: output.columns entries must not be empty")
		}
		if names[n] {
			return eris.Errorf("config: output column %q is used twice", n)
		}
		names[n] = true
	}

	if _, _, err := c.Columns.Resolve(); err != nil {
		return eris.Wrap(err, "config")
	}
	return nil
}

// Resolve builds the immutable column-name structs from the alias maps.
func (c ColumnsConfig) Resolve() (types.SalesColumns, types.DriverColumns, error) {
	sales, err := types.NewSalesColumns(c.Sales)
	if err != nil {
		return types.SalesColumns{}, types.DriverColumns{}, err
	}
	drivers, err := types.NewDriverColumns(c.Drivers)
	if err != nil {
		return types.SalesColumns{}, types.DriverColumns{}, err
	}
	return sales, drivers, nil
}

// DriversFile returns the drivers workbook, defaulting to the sales one.
func (c InputsConfig) DriversFile() string {
	if c.Drivers.File == "" {
		return c.Sales.File
	}
	return c.Drivers.File
}

// =============================================================================
// LOGGING
// =============================================================================

// InitLogger initializes the global zap logger.
//
// "console" selects the development encoder, anything else JSON. A non-empty
// File is added to the output paths; its directory is created if needed.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return eris.Wrap(err, "config: create log directory")
		}
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, cfg.File)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
