package files

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storagebox/internal/pkg/response"
	"storagebox/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.Upload)
	rg.GET("/files", h.List)
	rg.GET("/files/download/:file_name", h.Download)
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Detail(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Detail(c, http.StatusBadRequest, "Cannot open uploaded file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Printf("read upload body: %v", err)
		response.Detail(c, http.StatusInternalServerError, "Upload failed")
		return
	}

	f, err := h.service.Upload(c.Request.Context(), UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFilename):
			response.Detail(c, http.StatusBadRequest, "No filename provided")
		case errors.Is(err, ErrFileTooLarge):
			response.Detail(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large. Max size: %d bytes", h.service.cfg.MaxFileSize))
		case errors.Is(err, ErrTypeNotAllowed):
			response.Detail(c, http.StatusBadRequest, "File type not allowed")
		default:
			// storage or persistence failure; detail stays in the log
			log.Printf("upload %s: %v", fileHeader.Filename, err)
			response.Detail(c, http.StatusInternalServerError, "Upload failed")
		}
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{
		ID:          f.ID,
		Filename:    f.StorageKey,
		Size:        f.Size,
		ContentType: f.ContentType,
	})
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		log.Printf("list files: %v", err)
		response.Detail(c, http.StatusInternalServerError, "Failed to get files")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) Download(c *gin.Context) {
	fileName := c.Param("file_name")

	descriptor, err := h.service.Retrieve(c.Request.Context(), fileName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Detail(c, http.StatusNotFound, "File not found")
			return
		}
		log.Printf("retrieve %s: %v", fileName, err)
		response.Detail(c, http.StatusInternalServerError, "Failed to retrieve file")
		return
	}

	c.JSON(http.StatusOK, descriptor)
}
