package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"esign-composer/internal/domain/entity"
	"esign-composer/internal/domain/repository"
	"esign-composer/internal/domain/signer"
	"esign-composer/internal/infrastructure/engine"
	"esign-composer/internal/infrastructure/metadata"
	"esign-composer/internal/infrastructure/metrics"
	"esign-composer/internal/infrastructure/storage"
)

type SignatureUsecase interface {
	// Compose converts a batch of placements into the ordered instruction
	// set for one document.
	Compose(ctx context.Context, documentGuid string, format entity.DocumentFormat, placements []entity.SignaturePlacement) (*entity.InstructionSet, error)

	// Sign composes the placements of req and burns them into the document.
	Sign(ctx context.Context, req *entity.SignDocumentRequest) (*entity.SignedDocument, error)
}

type signatureUsecase struct {
	layout   storage.Layout
	engines  *engine.Provider
	signLogs repository.SignLogRepository
	metrics  metrics.Recorder
	logger   *zap.Logger
}

func NewSignatureUsecase(
	layout storage.Layout,
	engines *engine.Provider,
	signLogs repository.SignLogRepository,
	recorder metrics.Recorder,
	logger *zap.Logger,
) SignatureUsecase {
	return &signatureUsecase{
		layout:   layout,
		engines:  engines,
		signLogs: signLogs,
		metrics:  recorder,
		logger:   logger,
	}
}

// buckets groups live placements by the instruction family they produce.
type buckets struct {
	digital []entity.SignaturePlacement
	images  []entity.SignaturePlacement
	texts   []entity.SignaturePlacement
	stamps  []entity.SignaturePlacement
	optical []entity.SignaturePlacement
}

func (b *buckets) len() int {
	return len(b.digital) + len(b.images) + len(b.texts) + len(b.stamps) + len(b.optical)
}

// partition drops deleted placements and sorts the rest into buckets. It
// performs no I/O.
func partition(placements []entity.SignaturePlacement) (*buckets, error) {
	b := &buckets{}
	for _, p := range placements {
		if p.Deleted {
			continue
		}
		switch p.SignatureType {
		case entity.SignatureTypeDigital:
			b.digital = append(b.digital, p)
		case entity.SignatureTypeImage, entity.SignatureTypeHand:
			b.images = append(b.images, p)
		case entity.SignatureTypeText:
			b.texts = append(b.texts, p)
		case entity.SignatureTypeStamp:
			b.stamps = append(b.stamps, p)
		case entity.SignatureTypeQRCode, entity.SignatureTypeBarCode:
			b.optical = append(b.optical, p)
		default:
			return nil, entity.UnsupportedSignatureTypeError(p.SignatureType)
		}
	}
	if b.len() == 0 {
		return nil, entity.EmptySignatureSetError()
	}
	return b, nil
}

func (u *signatureUsecase) Compose(ctx context.Context, documentGuid string, format entity.DocumentFormat, placements []entity.SignaturePlacement) (*entity.InstructionSet, error) {
	b, err := partition(placements)
	if err != nil {
		return nil, err
	}

	format = entity.ResolveDocumentFormat(format, documentGuid)

	u.logger.Info("Composing signatures",
		zap.String("guid", documentGuid),
		zap.String("format", string(format)),
		zap.Int("digital", len(b.digital)),
		zap.Int("images", len(b.images)),
		zap.Int("texts", len(b.texts)),
		zap.Int("stamps", len(b.stamps)),
		zap.Int("optical", len(b.optical)),
	)

	set := &entity.InstructionSet{}
	steps := []struct {
		placements []entity.SignaturePlacement
		build      func(entity.SignaturePlacement) (signer.Signer, error)
	}{
		{b.digital, func(p entity.SignaturePlacement) (signer.Signer, error) { return signer.NewDigital(p), nil }},
		{b.images, func(p entity.SignaturePlacement) (signer.Signer, error) { return signer.NewImage(p), nil }},
		{b.texts, u.textSigner},
		{b.stamps, u.stampSigner},
		{b.optical, u.opticalSigner},
	}

	for _, step := range steps {
		for _, p := range step.placements {
			s, err := step.build(p)
			if err != nil {
				return nil, err
			}
			in, err := signer.ToInstruction(s, format)
			if err != nil {
				return nil, err
			}
			set.Add(in)
		}
	}

	return set, nil
}

func (u *signatureUsecase) textSigner(p entity.SignaturePlacement) (signer.Signer, error) {
	dirs := u.layout.Resolve(entity.SignatureTypeText)
	record, err := metadata.Read[entity.TextRecord](metadata.RecordPathFor(p.SignatureGuid, dirs.Metadata))
	if err != nil {
		return signer.Signer{}, err
	}
	return signer.NewText(p, record), nil
}

func (u *signatureUsecase) stampSigner(p entity.SignaturePlacement) (signer.Signer, error) {
	if p.ImageHeight <= 0 {
		return signer.Signer{}, entity.BadRequestError(fmt.Sprintf("stamp on page %d has invalid height %d", p.PageNumber, p.ImageHeight))
	}

	dirs := u.layout.Resolve(entity.SignatureTypeStamp)
	path := metadata.RecordPathFor(p.SignatureGuid, dirs.Metadata)
	record, err := metadata.Read[entity.StampRecord](path)
	if err != nil {
		return signer.Signer{}, err
	}

	// stored innermost first, laid out outermost first
	rings := slices.Clone(record.Rings)
	slices.Reverse(rings)

	s, err := signer.NewStamp(p, rings)
	if err != nil {
		return signer.Signer{}, entity.MetadataError("lay out stamp", path, err)
	}
	return s, nil
}

func (u *signatureUsecase) opticalSigner(p entity.SignaturePlacement) (signer.Signer, error) {
	dirs := u.layout.Resolve(p.SignatureType)
	record, err := metadata.Read[entity.OpticalRecord](metadata.RecordPathFor(p.SignatureGuid, dirs.Metadata))
	if err != nil {
		return signer.Signer{}, err
	}
	return signer.NewOptical(p, record), nil
}

func (u *signatureUsecase) Sign(ctx context.Context, req *entity.SignDocumentRequest) (*entity.SignedDocument, error) {
	start := time.Now()
	format := entity.ResolveDocumentFormat(req.DocumentType, req.Guid)
	log := &entity.SignLog{
		OperationID:    uuid.NewString(),
		DocumentGuid:   req.Guid,
		DocumentFormat: string(format),
		CreatedAt:      start,
	}

	u.logger.Info("Signing document",
		zap.String("operation_id", log.OperationID),
		zap.String("guid", req.Guid),
		zap.Int("placements", len(req.SignaturesData)),
	)

	output, set, err := u.sign(ctx, req)
	u.finish(ctx, log, set, output, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	return &entity.SignedDocument{ID: log.OperationID, Guid: output}, nil
}

func (u *signatureUsecase) sign(ctx context.Context, req *entity.SignDocumentRequest) (string, *entity.InstructionSet, error) {
	if req.Guid == "" {
		return "", nil, entity.BadRequestError("document guid is required")
	}

	set, err := u.Compose(ctx, req.Guid, req.DocumentType, req.SignaturesData)
	if err != nil {
		return "", nil, err
	}

	eng, err := u.engines.Get()
	if err != nil {
		return "", set, entity.EngineError("initialize engine for", req.Guid, err)
	}

	output, err := eng.Sign(ctx, req.Guid, *set,
		engine.LoadOptions{Password: req.Password},
		engine.SaveOptions{OutputDir: u.layout.SignedPath(), OutputFileName: filepath.Base(req.Guid)},
	)
	if err != nil {
		return "", set, fmt.Errorf("failed to sign document: %w", err)
	}

	return output, set, nil
}

// finish records the outcome of a sign operation in metrics and the sign
// log. Sign log failures are logged and otherwise ignored.
func (u *signatureUsecase) finish(ctx context.Context, log *entity.SignLog, set *entity.InstructionSet, output string, err error, duration time.Duration) {
	log.Duration = duration.Milliseconds()
	log.OutputGuid = output
	log.Status = entity.SignStatusSuccess
	if err != nil {
		log.Status = entity.SignStatusError
		log.ErrorMessage = err.Error()
	}

	if set != nil {
		counts := set.CountByKind()
		log.Signatures = set.Len()
		log.Digital = counts[entity.SignatureTypeDigital]
		log.Images = counts[entity.SignatureTypeImage] + counts[entity.SignatureTypeHand]
		log.Texts = counts[entity.SignatureTypeText]
		log.Stamps = counts[entity.SignatureTypeStamp]
		log.Optical = counts[entity.SignatureTypeQRCode] + counts[entity.SignatureTypeBarCode]
		if err == nil {
			for kind, n := range counts {
				u.metrics.RecordSignatures(kind.String(), n)
			}
		}
	}

	u.metrics.RecordSign(log.DocumentFormat, err == nil, duration)

	if saveErr := u.signLogs.Save(ctx, log); saveErr != nil {
		u.logger.Warn("Failed to save sign log",
			zap.String("operation_id", log.OperationID),
			zap.Error(saveErr),
		)
	}

	if err != nil {
		u.logger.Error("Failed to sign document",
			zap.String("operation_id", log.OperationID),
			zap.String("guid", log.DocumentGuid),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	u.logger.Info("Document signed",
		zap.String("operation_id", log.OperationID),
		zap.String("guid", log.DocumentGuid),
		zap.String("output", output),
		zap.Int("signatures", log.Signatures),
		zap.Duration("duration", duration),
	)
}
