package abandons

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"abandon-report/core/logger"
	"abandon-report/core/reconcile"
	"abandon-report/core/tabular"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Response headers of the report endpoint.
const (
	HeaderReportRows = "X-Report-Rows"
	HeaderRunID      = "X-Run-ID"
)

// Form fields of the report endpoints.
const (
	formMaster       = "master"
	formReservations = "reservations"
	formTransactions = "transactions"
	formPrior        = "prior"
)

// Handler handles HTTP requests for reports.
type Handler struct {
	service  *Service
	logger   *zap.Logger
	defaults reconcile.Options
}

// NewHandler creates a new HTTP handler. defaults are the options used when a
// request does not override them.
func NewHandler(service *Service, logger *zap.Logger, defaults reconcile.Options) *Handler {
	return &Handler{service: service, logger: logger, defaults: defaults}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/abandons")
	group.Post("/report", h.HandleReport)
	group.Post("/summary", h.HandleSummary)
	group.Get("/runs", h.HandleListRuns)
	group.Get("/runs/:id", h.HandleGetRun)
}

// HandleReport builds a report from uploaded files and returns it as an attachment.
// Query: format=csv|xlsx, filter=true, new_only=true, archive=true, master_policy=strict|lenient.
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	format, err := tabular.ParseFormat(c.Query("format", string(tabular.FormatCSV)))
	if err != nil {
		return badRequest(c, err)
	}

	result, err := h.run(c)
	if err != nil {
		return h.fail(c, l, err)
	}

	rows := result.Report.Rows
	if c.QueryBool("new_only") {
		if !result.HasPrior() {
			return badRequest(c, errors.New("new_only requires a prior report or archive=true"))
		}
		rows = result.New
	}

	if c.QueryBool("archive") {
		runID, err := h.service.SaveRun(c.UserContext(), result)
		if err != nil {
			return h.fail(c, l, err)
		}
		c.Set(HeaderRunID, runID)
	}

	data, err := EncodeReport(format, rows)
	if err != nil {
		return h.fail(c, l, err)
	}

	c.Set(fiber.HeaderContentType, ContentType(format))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="Reporte_Detalle_Pasajeros_Abandonos.%s"`, format))
	c.Set(HeaderReportRows, strconv.Itoa(len(rows)))
	return c.Send(data)
}

// HandleSummary builds a report from uploaded files and returns only its summary.
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	result, err := h.run(c)
	if err != nil {
		return h.fail(c, l, err)
	}

	resp := fiber.Map{"summary": result.Report.Summary, "sources": result.Sources}
	if result.HasPrior() {
		resp["new_rows"] = len(result.New)
	}
	return c.JSON(resp)
}

// HandleListRuns lists archived runs, latest first. Query: limit (default 50).
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	archive := h.service.Archive()
	if archive == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": ErrArchiveDisabled.Error()})
	}

	runs, err := archive.ListRuns(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return h.fail(c, logger.WithRayID(h.logger, c), err)
	}
	return c.JSON(runs)
}

// HandleGetRun downloads the report of an archived run. Query: format=csv|xlsx.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	archive := h.service.Archive()
	if archive == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": ErrArchiveDisabled.Error()})
	}

	format, err := tabular.ParseFormat(c.Query("format", string(tabular.FormatCSV)))
	if err != nil {
		return badRequest(c, err)
	}

	runID := c.Params("id")
	rows, err := archive.Report(c.UserContext(), runID)
	if errors.Is(err, ErrRunNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error(), "run_id": runID})
	}
	if err != nil {
		return h.fail(c, logger.WithRayID(h.logger, c), err)
	}

	data, err := EncodeReport(format, rows)
	if err != nil {
		return h.fail(c, logger.WithRayID(h.logger, c), err)
	}

	c.Set(fiber.HeaderContentType, ContentType(format))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="Reporte_Detalle_Pasajeros_Abandonos_%s.%s"`, runID, format))
	c.Set(HeaderReportRows, strconv.Itoa(len(rows)))
	c.Set(HeaderRunID, runID)
	return c.Send(data)
}

// run reads the multipart form into a request and runs it.
func (h *Handler) run(c *fiber.Ctx) (*Result, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &requestError{fmt.Errorf("expected a multipart form: %w", err)}
	}

	req := Request{Options: h.defaults, PriorFromArchive: c.QueryBool("prior_from_archive")}
	if c.Query("filter") != "" {
		req.Options.FilterReasons = c.QueryBool("filter")
	}
	if p := c.Query("master_policy"); p != "" {
		policy, err := reconcile.ParsePolicy(p)
		if err != nil {
			return nil, &requestError{err}
		}
		req.Options.MasterPolicy = policy
	}

	if req.Master, err = formFile(form, formMaster, true); err != nil {
		return nil, err
	}
	if req.Reservations, err = formFile(form, formReservations, true); err != nil {
		return nil, err
	}
	if req.Prior, err = formFile(form, formPrior, false); err != nil {
		return nil, err
	}
	for _, fh := range form.File[formTransactions] {
		src, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		req.Transactions = append(req.Transactions, src)
	}

	return h.service.Run(c.UserContext(), req)
}

// formFile returns the single upload of field. A nil Source means it was optional and absent.
func formFile(form *multipart.Form, field string, required bool) (Source, error) {
	files := form.File[field]
	switch {
	case len(files) == 0 && required:
		return nil, &requestError{fmt.Errorf("missing %q file", field)}
	case len(files) == 0:
		return nil, nil
	case len(files) > 1:
		return nil, &requestError{fmt.Errorf("expected one %q file, got %d", field, len(files))}
	}
	return readUpload(files[0])
}

func readUpload(fh *multipart.FileHeader) (Source, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return BytesSource{FileName: fh.Filename, Data: data}, nil
}

type requestError struct{ err error }

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// fail maps run errors onto status codes.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	var (
		reqErr  *requestError
		loadErr *tabular.LoadError
	)
	switch {
	case errors.As(err, &reqErr):
		return badRequest(c, err)
	case errors.As(err, &loadErr):
		l.Warn("Report input rejected", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  err.Error(),
			"source": loadErr.Source,
			"column": loadErr.Column,
		})
	case errors.Is(err, ErrArchiveDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, reconcile.ErrInvalidOptions):
		return badRequest(c, err)
	default:
		l.Error("Report run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
