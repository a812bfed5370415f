package http

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/likelee/agency-dashboard/internal/application/service"
	"github.com/likelee/agency-dashboard/internal/domain/apperr"
)

type createFolderRequest struct {
	Name string `json:"name"`
}

// ListFolders handles GET /api/agency/folders
func (h *Handlers) ListFolders(c *gin.Context) {
	folders, err := h.services.Files.ListFolders(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to list folders", err)
		return
	}
	respond(c, http.StatusOK, folders)
}

// CreateFolder handles POST /api/agency/folders
func (h *Handlers) CreateFolder(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "Invalid folder payload", errInvalidBody)
		return
	}
	folder, err := h.services.Files.CreateFolder(c.Request.Context(), agencyID(c), req.Name)
	if err != nil {
		h.fail(c, "Failed to create folder", err)
		return
	}
	respond(c, http.StatusCreated, folder)
}

// ListFiles handles GET /api/agency/files
func (h *Handlers) ListFiles(c *gin.Context) {
	result, err := h.services.Files.ListFiles(c.Request.Context(), agencyID(c), listQuery(c, "folder", "type"))
	if err != nil {
		h.fail(c, "Failed to list files", err)
		return
	}
	respond(c, http.StatusOK, result)
}

// UploadFile handles POST /api/agency/files as multipart form data with a
// "file" part and optional "folder" and "uploaded_by" fields
func (h *Handlers) UploadFile(c *gin.Context) {
	name, content, err := h.readUpload(c, "file")
	if err != nil {
		h.fail(c, "Invalid upload", err)
		return
	}
	file, err := h.services.Files.Upload(c.Request.Context(), agencyID(c), service.UploadInput{
		FileName:   name,
		Folder:     c.PostForm("folder"),
		UploadedBy: c.PostForm("uploaded_by"),
		Content:    content,
	})
	if err != nil {
		h.fail(c, "Failed to upload file", err)
		return
	}
	respond(c, http.StatusCreated, file)
}

// DeleteFile handles DELETE /api/agency/files/:id
func (h *Handlers) DeleteFile(c *gin.Context) {
	if err := h.services.Files.Delete(c.Request.Context(), agencyID(c), c.Param("id")); err != nil {
		h.fail(c, "Failed to delete file", err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// DownloadFile handles GET /api/agency/files/:id/download
func (h *Handlers) DownloadFile(c *gin.Context) {
	download, err := h.services.Files.Download(c.Request.Context(), agencyID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to download file", err)
		return
	}
	sendFile(c, download)
}

// ViewSharedFile handles GET /public/files/:token/info
func (h *Handlers) ViewSharedFile(c *gin.Context) {
	shared, err := h.services.Files.ViewShared(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.fail(c, "Failed to open shared file", err)
		return
	}
	respond(c, http.StatusOK, shared)
}

// DownloadSharedFile handles GET /public/files/:token
func (h *Handlers) DownloadSharedFile(c *gin.Context) {
	download, err := h.services.Files.DownloadShared(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.fail(c, "Failed to download shared file", err)
		return
	}
	sendFile(c, download)
}

// ShareFile handles POST /api/agency/files/:id/share
func (h *Handlers) ShareFile(c *gin.Context) {
	var in service.ShareInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "Invalid share payload", errInvalidBody)
		return
	}
	share, err := h.services.Files.Share(c.Request.Context(), agencyID(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, "Failed to share file", err)
		return
	}
	respond(c, http.StatusCreated, share)
}

// StorageUsage handles GET /api/agency/files/usage
func (h *Handlers) StorageUsage(c *gin.Context) {
	usage, err := h.services.Files.StorageUsage(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to compute storage usage", err)
		return
	}
	respond(c, http.StatusOK, usage)
}

// readUpload reads a multipart file part, enforcing the upload limit
func (h *Handlers) readUpload(c *gin.Context, field string) (string, []byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", nil, apperr.Validation("a file is required")
	}
	if h.config.MaxUploadBytes > 0 && header.Size > h.config.MaxUploadBytes {
		return "", nil, apperr.Validation("file exceeds the %d MB upload limit", h.config.MaxUploadBytes>>20)
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return header.Filename, content, nil
}

func sendFile(c *gin.Context, d *service.Download) {
	contentType := mime.TypeByExtension(path.Ext(d.File.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.File.Name}))
	c.Data(http.StatusOK, contentType, d.Content)
}
