package handlers

import (
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"bannerlab/internal/domain"
	"bannerlab/internal/jobs"
	"bannerlab/internal/storage"
)

// maxUploadBytes caps the multipart photo upload at 16 MiB.
const maxUploadBytes = 16 << 20

// ImagesUpload accepts a product photo as multipart form data, creates a
// placeholder record and hands the bytes to the upload task. The response
// is 202 with the task id and the URL the image will appear under.
func (a *App) ImagesUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "이미지 업로드 형식이 올바르지 않습니다.", "invalid multipart upload"))
		return
	}
	userID := r.FormValue("user_id")
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "user_id가 필요합니다.", "user_id is required"))
		return
	}
	if _, err := a.users.GetByID(r.Context(), userID); err != nil {
		a.domainError(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// older clients send the part as "image"
		file, header, err = r.FormFile("image")
	}
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "file 파일이 필요합니다.", "file part is required"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "이미지 파일을 읽을 수 없습니다.", "could not read image file"))
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	imageID, err := a.images.CreatePlaceholder(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	key := storage.NewKey(extForContentType(contentType))
	taskID, ok := a.submit(w, r, domain.TaskTypeImageUpload, jobs.UploadPayload{
		ImageID:     imageID,
		BlobKey:     key,
		ContentType: contentType,
		Data:        data,
	})
	if !ok {
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"image_id": imageID,
		"task_id":  taskID,
		"s3_url":   a.Store.URL(key),
	})
}

func (a *App) ImagesGet(w http.ResponseWriter, r *http.Request) {
	img, err := a.images.GetByID(r.Context(), chi.URLParam(r, "image_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"image_id":   img.ID,
		"user_id":    img.UserID,
		"image_url":  img.ImageURL,
		"status":     lo.Ternary(img.Pending(), "pending", "ready"),
		"created_at": img.CreatedAt,
	})
}

// ImagesDelete soft-deletes the record. Blob removal is best effort and
// never blocks the row deletion.
func (a *App) ImagesDelete(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "image_id")
	url, err := a.images.SoftDelete(r.Context(), imageID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.deleteBlobByURL(r, url)
	a.json(w, http.StatusOK, map[string]string{
		"message": a.msg(r, "이미지가 삭제되었습니다.", "image deleted"),
	})
}

// deleteBlobByURL removes the blob a record pointed at, logging failures
// instead of surfacing them.
func (a *App) deleteBlobByURL(r *http.Request, url string) {
	if url == "" {
		return
	}
	key := path.Base(url)
	if key == "" || key == "." || key == "/" {
		return
	}
	if err := a.Store.Delete(r.Context(), key); err != nil {
		a.Logger.Warn().Err(err).Str("key", key).Msg("handlers: blob delete failed")
	}
}

func extForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}
