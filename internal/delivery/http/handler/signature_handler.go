package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"esign-composer/internal/config"
	"esign-composer/internal/domain/entity"
	"esign-composer/internal/usecase"
)

type SignatureHandler struct {
	config     *config.Config
	documents  usecase.DocumentUsecase
	assets     usecase.AssetUsecase
	signatures usecase.SignatureUsecase
	logger     *zap.Logger
}

func NewSignatureHandler(
	cfg *config.Config,
	documents usecase.DocumentUsecase,
	assets usecase.AssetUsecase,
	signatures usecase.SignatureUsecase,
	logger *zap.Logger,
) *SignatureHandler {
	return &SignatureHandler{
		config:     cfg,
		documents:  documents,
		assets:     assets,
		signatures: signatures,
		logger:     logger,
	}
}

// LoadFileTree godoc
// @Summary List documents or signature assets
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.FileTreeRequest true "Directory and signature type"
// @Success 200 {object} entity.APIResponse
// @Router /signature/loadFileTree [post]
func (h *SignatureHandler) LoadFileTree(c *fiber.Ctx) error {
	var req entity.FileTreeRequest
	if err := parseBody(c, h.logger, &req); err != nil {
		return respondError(c, h.logger, "Invalid file tree request", err)
	}

	files, err := h.assets.ListFiles(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to load file tree", err)
	}
	if files == nil {
		files = []entity.FileDescriptor{}
	}

	return c.JSON(entity.NewSuccessResponse(files, "File tree loaded successfully"))
}

// LoadDocumentDescription godoc
// @Summary Describe a document and its pages
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.LoadDocumentRequest true "Document path and password"
// @Success 200 {object} entity.APIResponse
// @Router /signature/loadDocumentDescription [post]
func (h *SignatureHandler) LoadDocumentDescription(c *fiber.Ctx) error {
	var req entity.LoadDocumentRequest
	if err := parseBody(c, h.logger, &req); err != nil {
		return respondError(c, h.logger, "Invalid document request", err)
	}

	description, err := h.documents.LoadDocumentDescription(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to load document description", err)
	}

	return c.JSON(entity.NewSuccessResponse(description, "Document description loaded successfully"))
}

// LoadDocumentPage godoc
// @Summary Render one document page
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.LoadDocumentPageRequest true "Document path and page number"
// @Success 200 {object} entity.APIResponse
// @Router /signature/loadDocumentPage [post]
func (h *SignatureHandler) LoadDocumentPage(c *fiber.Ctx) error {
	var req entity.LoadDocumentPageRequest
	if err := parseBody(c, h.logger, &req); err != nil {
		return respondError(c, h.logger, "Invalid page request", err)
	}

	page, err := h.documents.LoadDocumentPage(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to load document page", err)
	}

	return c.JSON(entity.NewSuccessResponse(page, "Document page loaded successfully"))
}

// DownloadDocument godoc
// @Summary Download an original or signed document
// @Tags signature
// @Produce octet-stream
// @Param path query string true "Document path, only the file name is used"
// @Param signed query bool false "Download the signed copy"
// @Router /signature/downloadDocument [get]
func (h *SignatureHandler) DownloadDocument(c *fiber.Ctx) error {
	signed := c.QueryBool("signed", false)
	if (signed && !h.config.Signature.DownloadSigned) || (!signed && !h.config.Signature.DownloadOriginal) {
		return respondError(c, h.logger, "Download rejected", entity.BadRequestError("download is disabled"))
	}

	path, err := h.documents.DownloadPath(c.UserContext(), c.Query("path"), signed)
	if err != nil {
		return respondError(c, h.logger, "Failed to download document", err)
	}

	h.logger.Info("Sending document", zap.String("guid", path), zap.Bool("signed", signed))
	return c.Download(path)
}

// UploadDocument godoc
// @Summary Upload a document or signature asset
// @Tags signature
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "File content"
// @Param url formData string false "URL to fetch the file from"
// @Param rewrite formData bool false "Overwrite an existing file"
// @Param signatureType formData string false "Signature type the file belongs to"
// @Success 200 {object} entity.APIResponse
// @Router /signature/uploadDocument [post]
func (h *SignatureHandler) UploadDocument(c *fiber.Ctx) error {
	req := entity.UploadDocumentRequest{
		URL:           c.FormValue("url"),
		Rewrite:       c.FormValue("rewrite") == "true",
		SignatureType: entity.SignatureType(c.FormValue("signatureType")),
	}

	if header, err := c.FormFile("file"); err == nil {
		f, err := header.Open()
		if err != nil {
			return respondError(c, h.logger, "Failed to open uploaded file", entity.AssetIOError("open upload", header.Filename, err))
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return respondError(c, h.logger, "Failed to read uploaded file", entity.AssetIOError("read upload", header.Filename, err))
		}
		req.Filename = header.Filename
		req.Content = content
	} else if req.URL == "" {
		return respondError(c, h.logger, "Invalid upload", entity.BadRequestError("file or url is required"))
	}

	saved, err := h.assets.UploadDocument(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to upload document", err)
	}

	return c.JSON(entity.NewSuccessResponse(saved, "Document uploaded successfully"))
}

// LoadSignatureImage godoc
// @Summary Load a saved signature preview
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.LoadSignatureImageRequest true "Signature path and type"
// @Success 200 {object} entity.APIResponse
// @Router /signature/loadSignatureImage [post]
func (h *SignatureHandler) LoadSignatureImage(c *fiber.Ctx) error {
	var req entity.LoadSignatureImageRequest
	if err := parseBody(c, h.logger, &req); err != nil {
		return respondError(c, h.logger, "Invalid signature image request", err)
	}

	image, err := h.assets.LoadSignatureImage(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to load signature image", err)
	}

	return c.JSON(entity.NewSuccessResponse(image, "Signature image loaded successfully"))
}

// DeleteSignatureFile godoc
// @Summary Delete a saved signature and its metadata
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.DeleteSignatureFileRequest true "Signature path and type"
// @Success 200 {object} entity.APIResponse
// @Router /signature/deleteSignatureFile [post]
func (h *SignatureHandler) DeleteSignatureFile(c *fiber.Ctx) error {
	var req entity.DeleteSignatureFileRequest
	if err := parseBody(c, h.logger, &req); err != nil {
		return respondError(c, h.logger, "Invalid delete request", err)
	}

	if err := h.assets.DeleteSignatureFile(c.UserContext(), &req); err != nil {
		return respondError(c, h.logger, "Failed to delete signature file", err)
	}

	return c.JSON(entity.NewSuccessResponse(nil, "Signature file deleted successfully"))
}

// Sign godoc
// @Summary Sign a document
// @Description Burns every placement of the batch into the document
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.SignDocumentRequest true "Document and placements"
// @Success 200 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 500 {object} entity.APIResponse
// @Router /signature/sign [post]
func (h *SignatureHandler) Sign(c *fiber.Ctx) error {
	var req entity.SignDocumentRequest
	if err := parseBody(c, h.logger, &req); err != nil {
		return respondError(c, h.logger, "Invalid sign request", err)
	}

	signed, err := h.signatures.Sign(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to sign document", err)
	}

	return c.JSON(entity.NewSuccessResponse(signed, "Document signed successfully"))
}

// SaveImage godoc
// @Summary Save a hand drawn signature
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.SaveImageRequest true "Base64 PNG"
// @Success 200 {object} entity.APIResponse
// @Router /signature/saveImage [post]
func (h *SignatureHandler) SaveImage(c *fiber.Ctx) error {
	var req entity.SaveImageRequest
	if err := parseBody(c, h.logger, &req); err != nil {
		return respondError(c, h.logger, "Invalid image request", err)
	}

	saved, err := h.assets.SaveImage(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to save image", err)
	}

	return c.JSON(entity.NewSuccessResponse(saved, "Image saved successfully"))
}

// SaveStamp godoc
// @Summary Save a stamp
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.SaveStampRequest true "Preview and rings"
// @Success 200 {object} entity.APIResponse
// @Router /signature/saveStamp [post]
func (h *SignatureHandler) SaveStamp(c *fiber.Ctx) error {
	var req entity.SaveStampRequest
	if err := parseBody(c, h.logger, &req); err != nil {
		return respondError(c, h.logger, "Invalid stamp request", err)
	}

	saved, err := h.assets.SaveStamp(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to save stamp", err)
	}

	return c.JSON(entity.NewSuccessResponse(saved, "Stamp saved successfully"))
}

// SaveOpticalCode godoc
// @Summary Save a QR code or bar code
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.SaveOpticalCodeRequest true "Code properties and type"
// @Success 200 {object} entity.APIResponse
// @Router /signature/saveOpticalCode [post]
func (h *SignatureHandler) SaveOpticalCode(c *fiber.Ctx) error {
	var req entity.SaveOpticalCodeRequest
	if err := parseBody(c, h.logger, &req); err != nil {
		return respondError(c, h.logger, "Invalid optical code request", err)
	}

	saved, err := h.assets.SaveOpticalCode(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to save optical code", err)
	}

	return c.JSON(entity.NewSuccessResponse(saved, "Optical code saved successfully"))
}

// SaveText godoc
// @Summary Save a text signature
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.SaveTextRequest true "Text properties"
// @Success 200 {object} entity.APIResponse
// @Router /signature/saveText [post]
func (h *SignatureHandler) SaveText(c *fiber.Ctx) error {
	var req entity.SaveTextRequest
	if err := parseBody(c, h.logger, &req); err != nil {
		return respondError(c, h.logger, "Invalid text request", err)
	}

	saved, err := h.assets.SaveText(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to save text", err)
	}

	return c.JSON(entity.NewSuccessResponse(saved, "Text saved successfully"))
}

// GetFonts godoc
// @Summary Fonts offered to text signatures
// @Tags signature
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /signature/getFonts [get]
func (h *SignatureHandler) GetFonts(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(h.assets.Fonts(c.UserContext()), "Fonts retrieved successfully"))
}
