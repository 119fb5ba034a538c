// =============================================================================
// Ventas Semaforo - Converter Module
// =============================================================================
//
// This module orchestrates one reconciliation run, from locating the input
// workbooks to writing the enriched sales workbook.
//
// PROCESSING PIPELINE:
//   1. Resolve the column aliases and the input workbooks
//   2. Preview-read both sheets (inputs.preview_rows rows)
//   3. Validate the required columns of both tables
//   4. Read both sheets in full
//   5. Derive status, alternate client code, agent code and agent name
//   6. Apply the status correction pass
//   7. Attach the derived columns to the sales table
//   8. Write the output workbook (skipped on a dry run)
//
// A validation failure stops the run before any full read, derivation or
// output. The run is all-or-nothing: no partial output is written.
//
// =============================================================================

package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ginjaninja78/ventas-semaforo/internal/config"
	"github.com/ginjaninja78/ventas-semaforo/internal/types"
	"github.com/ginjaninja78/ventas-semaforo/internal/validation"
	"github.com/ginjaninja78/ventas-semaforo/internal/xlsxparser"
	"github.com/ginjaninja78/ventas-semaforo/internal/xlsxwriter"
	"github.com/ginjaninja78/ventas-semaforo/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of a run.
type Result struct {
	// RunID identifies the run in the logs.
	RunID string

	// SalesFile and DriversFile are the resolved input workbooks. They are
	// the same path when both sheets live in one workbook.
	SalesFile   string
	DriversFile string

	// OutputFile is the path of the written workbook. Empty on a dry run or
	// a failure.
	OutputFile string

	// Output is the enriched sales table.
	Output *types.Table

	// Success is true if the run completed.
	Success bool

	// Error contains the error if the run failed.
	Error error

	// Stats contains statistics about the run.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// RowsProcessed is the number of sales rows.
	RowsProcessed int

	// DriverRows is the number of drivers rows.
	DriverRows int

	// StatusCounts is the number of rows per final status.
	StatusCounts map[string]int

	// StatusCorrected is the number of rows the correction pass changed.
	StatusCorrected int

	// AgentsResolved is the number of unassigned rows whose agent was found
	// in the drivers.
	AgentsResolved int

	// ClientCodesResolved is the number of rows whose alternate client code
	// came from the drivers.
	ClientCodesResolved int

	// ProcessingTime is the total time taken.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the reconciliation described by a configuration.
type Converter struct {
	cfg    *config.Config
	files  *utils.FileManager
	dryRun bool
	runID  string
	logger *zap.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithDryRun derives the output without writing it.
func WithDryRun(dryRun bool) Option {
	return func(c *Converter) {
		c.dryRun = dryRun
	}
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - cfg: The loaded, validated configuration.
//   - opts: Optional settings.
//
// RETURNS:
//   - A new Converter instance.
func New(cfg *config.Config, opts ...Option) *Converter {
	c := &Converter{
		cfg:   cfg,
		files: utils.NewFileManager(cfg.Inputs.Dir, cfg.Output.Dir),
		runID: uuid.New().String(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = zap.L().With(zap.String("run_id", c.runID))
	return c
}

// RunID returns the identifier attached to every log line of the run.
func (c *Converter) RunID() string {
	return c.runID
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline.
//
// RETURNS:
//   - A Result struct containing the outcome of the run. Result.Error is set
//     when Success is false.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{RunID: c.runID}

	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		c.logger.Error("run failed", zap.Error(err), zap.Duration("elapsed", result.Stats.ProcessingTime))
		return result
	}

	c.logger.Info("run started", zap.Bool("dry_run", c.dryRun))

	// =========================================================================
	// STEPS 1-3: RESOLVE, PREVIEW AND VALIDATE
	// =========================================================================

	in, err := c.prepare()
	if err != nil {
		return fail(err)
	}
	result.SalesFile = in.salesPath
	result.DriversFile = in.driversPath

	// =========================================================================
	// STEP 4: FULL READ
	// =========================================================================

	sales, err := c.readSheet(in.salesPath, c.cfg.Inputs.Sales, c.cfg.Columns.Sales, 0)
	if err != nil {
		return fail(eris.Wrap(err, "read sales"))
	}
	drivers, err := c.readSheet(in.driversPath, c.cfg.Inputs.Drivers, c.cfg.Columns.Drivers, 0)
	if err != nil {
		return fail(eris.Wrap(err, "read drivers"))
	}

	// Without a preview the full tables are validated here instead.
	if c.cfg.Inputs.PreviewRows == 0 {
		if err := c.validateTables(sales, drivers); err != nil {
			return fail(err)
		}
	}

	result.Stats.RowsProcessed = sales.Len()
	result.Stats.DriverRows = drivers.Len()

	// =========================================================================
	// STEPS 5-6: DERIVE AND CORRECT
	// =========================================================================

	var derived *Derivation
	err = c.timed("derive", func() error {
		var derr error
		derived, derr = Derive(sales, drivers, in.salesCols, in.driverCols, DeriveOptions{
			AltClientLiteralIfFalse: c.cfg.Output.AltClientLiteralIfFalse,
		})
		return derr
	})
	if err != nil {
		return fail(eris.Wrap(err, "derive columns"))
	}

	result.Stats.StatusCounts = derived.StatusCounts()
	result.Stats.StatusCorrected = derived.Corrected
	result.Stats.AgentsResolved = derived.AgentsResolved
	result.Stats.ClientCodesResolved = derived.ClientCodesResolved

	// =========================================================================
	// STEP 7: ATTACH DERIVED COLUMNS
	// =========================================================================

	output, err := c.attach(sales, derived)
	if err != nil {
		return fail(eris.Wrap(err, "attach derived columns"))
	}
	result.Output = output

	// =========================================================================
	// STEP 8: WRITE OUTPUT FILE
	// =========================================================================

	if c.dryRun {
		c.logger.Info("dry run, output not written")
	} else {
		outputPath, err := c.writeOutput(output, in.salesPath)
		if err != nil {
			return fail(eris.Wrap(err, "write output"))
		}
		result.OutputFile = outputPath
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	c.logger.Info("run complete",
		zap.Int("rows", result.Stats.RowsProcessed),
		zap.Any("status_counts", result.Stats.StatusCounts),
		zap.Int("status_corrected", result.Stats.StatusCorrected),
		zap.Int("agents_resolved", result.Stats.AgentsResolved),
		zap.Int("client_codes_resolved", result.Stats.ClientCodesResolved),
		zap.String("output", result.OutputFile),
		zap.Duration("elapsed", result.Stats.ProcessingTime),
	)

	return result
}

// Validate resolves the input workbooks and checks their required columns
// without deriving anything.
//
// RETURNS:
//   - nil if the run could proceed to the full read.
//   - The first resolution, read or validation error otherwise.
func (c *Converter) Validate() error {
	_, err := c.prepare()
	return err
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// inputs holds what prepare resolved.
type inputs struct {
	salesPath   string
	driversPath string
	salesCols   types.SalesColumns
	driverCols  types.DriverColumns
}

// prepare resolves the column aliases and the input files, then validates
// the preview of both sheets.
func (c *Converter) prepare() (*inputs, error) {
	salesCols, driverCols, err := c.cfg.Columns.Resolve()
	if err != nil {
		return nil, eris.Wrap(err, "resolve columns")
	}
	in := &inputs{salesCols: salesCols, driverCols: driverCols}

	if in.salesPath, err = c.files.ResolveInput(c.cfg.Inputs.Sales.File); err != nil {
		return nil, eris.Wrap(err, "resolve sales workbook")
	}
	if in.driversPath, err = c.files.ResolveInput(c.cfg.Inputs.DriversFile()); err != nil {
		return nil, eris.Wrap(err, "resolve drivers workbook")
	}

	rows := c.cfg.Inputs.PreviewRows
	if rows == 0 {
		return in, nil
	}

	sales, err := c.readSheet(in.salesPath, c.cfg.Inputs.Sales, nil, rows)
	if err != nil {
		return nil, eris.Wrap(err, "preview sales")
	}
	drivers, err := c.readSheet(in.driversPath, c.cfg.Inputs.Drivers, nil, rows)
	if err != nil {
		return nil, eris.Wrap(err, "preview drivers")
	}

	if err := c.validateTables(sales, drivers); err != nil {
		return nil, err
	}
	return in, nil
}

// validateTables checks both tables, reporting the sales table first.
func (c *Converter) validateTables(sales, drivers *types.Table) error {
	if err := validation.CheckColumns(sales, c.cfg.Columns.Sales); err != nil {
		return err
	}
	return validation.CheckColumns(drivers, c.cfg.Columns.Drivers)
}

// readSheet reads a sheet. required adds the alias columns to a configured
// column selection; a preview (maxRows > 0) passes nil and reads every
// column.
func (c *Converter) readSheet(path string, sheet config.SheetConfig, required map[string]string, maxRows int) (*types.Table, error) {
	opts := xlsxparser.ReadOptions{
		Sheet:   sheet.Sheet,
		MaxRows: maxRows,
		Engine:  xlsxparser.Engine(c.cfg.Inputs.Engine),
	}
	if len(sheet.Columns) > 0 && required != nil {
		opts.Columns = selection(sheet.Columns, required)
	}
	return xlsxparser.ReadSheet(path, opts)
}

// selection returns the configured columns followed by every required column
// not already listed.
func selection(columns []string, required map[string]string) []string {
	out := append([]string(nil), columns...)
	for _, col := range validation.RequiredColumns(required) {
		if !contains(out, col) {
			out = append(out, col)
		}
	}
	return out
}

// attach adds the derived columns to the sales table, in output order.
func (c *Converter) attach(sales *types.Table, d *Derivation) (*types.Table, error) {
	names := c.cfg.Output.Columns
	columns := []struct {
		name   string
		values []string
	}{
		{names.Status, d.Status},
		{names.AltClientCode, d.AltClientCode},
		{names.AgentCode, d.AgentCode},
		{names.AgentName, d.AgentName},
	}

	out := sales
	for _, col := range columns {
		next, err := out.WithColumn(col.name, col.values)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// writeOutput writes the output workbook into the output directory.
func (c *Converter) writeOutput(t *types.Table, salesPath string) (string, error) {
	path, err := c.files.PrepareOutput(c.cfg.Output.FileName, map[string]string{
		"sales": utils.BaseName(salesPath),
	})
	if err != nil {
		return "", err
	}

	options := xlsxwriter.DefaultWriteOptions()
	if c.cfg.Output.Sheet != "" {
		options.Sheet = c.cfg.Output.Sheet
	}

	err = c.timed("write", func() error {
		return xlsxwriter.Write(path, t, options)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// timed runs fn and logs its elapsed time under step.
func (c *Converter) timed(step string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.logger.Debug("step finished",
		zap.String("step", step),
		zap.Bool("ok", err == nil),
		zap.Duration("elapsed", time.Since(start)),
	)
	return err
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
