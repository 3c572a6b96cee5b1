package controller

import (
	"errors"
	"io"

	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	IndexStatus(ctx *fiber.Ctx) error
	RebuildIndex(ctx *fiber.Ctx) error
	UpdateSettings(ctx *fiber.Ctx) error
}

type documentController struct {
	service  service.IDocumentService
	indexSvc service.IIndexService
}

func NewDocumentController(service service.IDocumentService, indexSvc service.IIndexService) IDocumentController {
	return &documentController{service: service, indexSvc: indexSvc}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Get("/", c.List)
	h.Post("/", c.Upload)
	h.Delete("/:name", c.Delete)

	idx := r.Group("/index")
	idx.Get("/status", c.IndexStatus)
	idx.Post("/rebuild", c.RebuildIndex)

	r.Put("/settings", c.UpdateSettings)
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List()
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Documents",
		"data":    res,
	})
}

// Upload accepts multipart form files under the "documents" field. All files
// are attempted; a name collision fails that file only.
func (c *documentController) Upload(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected multipart form upload")
	}

	files := form.File["documents"]
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no files in 'documents' field")
	}

	uploaded := make([]string, 0, len(files))
	failed := map[string]string{}
	for _, fileHeader := range files {
		f, err := fileHeader.Open()
		if err != nil {
			failed[fileHeader.Filename] = err.Error()
			continue
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			failed[fileHeader.Filename] = err.Error()
			continue
		}

		if err := c.service.Upload(ctx.Context(), fileHeader.Filename, content); err != nil {
			failed[fileHeader.Filename] = err.Error()
			continue
		}
		uploaded = append(uploaded, fileHeader.Filename)
	}

	code := 200
	if len(uploaded) == 0 {
		code = fiber.StatusConflict
	}
	return ctx.Status(code).JSON(fiber.Map{
		"success": len(uploaded) > 0,
		"code":    code,
		"message": "Upload processed",
		"data": fiber.Map{
			"uploaded": uploaded,
			"failed":   failed,
		},
	})
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	name := ctx.Params("name")
	if err := c.service.Delete(ctx.Context(), name); err != nil {
		code := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrDocumentNotFound) {
			code = fiber.StatusNotFound
		} else if errors.Is(err, service.ErrInvalidFileName) {
			code = fiber.StatusBadRequest
		}
		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"code":    code,
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Document deleted",
		"data":    nil,
	})
}

func (c *documentController) IndexStatus(ctx *fiber.Ctx) error {
	res, err := c.indexSvc.Status(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Index status",
		"data":    res,
	})
}

func (c *documentController) RebuildIndex(ctx *fiber.Ctx) error {
	if err := c.indexSvc.Rebuild(ctx.Context()); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Index rebuilt",
		"data":    nil,
	})
}

func (c *documentController) UpdateSettings(ctx *fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.service.UpdateSettings(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Settings updated",
		"data":    nil,
	})
}
