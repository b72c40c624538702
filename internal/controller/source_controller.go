package controller

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISourceController interface {
	RegisterRoutes(r fiber.Router)
	AddFiles(ctx *fiber.Ctx) error
	AddURL(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GetContent(ctx *fiber.Ctx) error
}

type sourceController struct {
	ingestion service.IIngestionService
	notebook  service.INotebookService
}

func NewSourceController(ingestion service.IIngestionService, notebook service.INotebookService) ISourceController {
	return &sourceController{ingestion: ingestion, notebook: notebook}
}

func (c *sourceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/source/v1/:notebookId")
	h.Post("files", c.AddFiles)
	h.Post("url", c.AddURL)
	h.Put(":sourceId", c.Rename)
	h.Delete(":sourceId", c.Delete)
	h.Get(":sourceId/content", c.GetContent)
}

func (c *sourceController) AddFiles(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected multipart form")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no files provided")
	}

	items := make([]dto.IngestFileItem, 0, len(files))
	for _, file := range files {
		item, err := readUpload(file)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	res, err := c.ingestion.AddFiles(ctx.Context(), notebookId, items)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add sources", res))
}

func (c *sourceController) AddURL(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}

	var req dto.AddSourceURLRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestion.AddURL(ctx.Context(), notebookId, req.URL)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add url source", res))
}

func (c *sourceController) Rename(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}
	sourceId, err := parseUUIDParam(ctx, "sourceId")
	if err != nil {
		return err
	}

	var req dto.RenameSourceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.notebook.RenameSource(ctx.Context(), notebookId, sourceId, req.Name)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rename source", res))
}

func (c *sourceController) Delete(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}
	sourceId, err := parseUUIDParam(ctx, "sourceId")
	if err != nil {
		return err
	}

	if err := c.notebook.DeleteSource(ctx.Context(), notebookId, sourceId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete source", nil))
}

func (c *sourceController) GetContent(ctx *fiber.Ctx) error {
	notebookId, err := parseUUIDParam(ctx, "notebookId")
	if err != nil {
		return err
	}
	sourceId, err := parseUUIDParam(ctx, "sourceId")
	if err != nil {
		return err
	}

	res, err := c.notebook.GetSourceContent(ctx.Context(), notebookId, sourceId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get source content", res))
}

func readUpload(file *multipart.FileHeader) (dto.IngestFileItem, error) {
	f, err := file.Open()
	if err != nil {
		return dto.IngestFileItem{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return dto.IngestFileItem{}, err
	}

	return dto.IngestFileItem{
		Name:     file.Filename,
		MimeType: uploadMimeType(file),
		Data:     data,
	}, nil
}

func uploadMimeType(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}

	// Fall back on the extension when the browser sent nothing useful.
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".mp4":
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}
