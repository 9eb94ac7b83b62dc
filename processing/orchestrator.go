package processing

import (
	"context"
	"time"

	"github.com/skillsenselab/filevault/errors"
	"github.com/skillsenselab/filevault/logger"
	"github.com/skillsenselab/filevault/metadata"
)

// Optimizer is an optional processor capability for final, type-specific
// optimizations. Failures here degrade to warnings.
type Optimizer interface {
	Optimize(ctx context.Context, file *metadata.FileMetadata) ([]string, error)
}

// Orchestrator runs the per-file pipeline.
type Orchestrator struct {
	files    metadata.Repository
	registry *Registry
	security SecurityChecker
	queue    JobEnqueuer
	cfg      Config
	log      *logger.Logger
	now      func() time.Time
}

// NewOrchestrator creates the pipeline orchestrator.
func NewOrchestrator(files metadata.Repository, registry *Registry, security SecurityChecker, queue JobEnqueuer, cfg Config, log *logger.Logger) *Orchestrator {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Orchestrator{
		files:    files,
		registry: registry,
		security: security,
		queue:    queue,
		cfg:      cfg,
		log:      log.WithComponent("processing"),
		now:      time.Now,
	}
}

// ProcessUploadedFile runs the full pipeline for one file and leaves it in
// a terminal status. A file already in PROCESSING fails fast without
// touching the in-flight record.
func (o *Orchestrator) ProcessUploadedFile(ctx context.Context, fileID string) (*Result, error) {
	file, err := o.files.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.ProcessingStatus == metadata.StatusProcessing {
		return nil, errors.InvalidProcessingState(fileID, file.ProcessingStatus, "processing already in progress")
	}

	// Conditional transition: loses the race if another caller claimed the
	// file between the read above and here.
	if err := o.files.TransitionStatus(ctx, fileID, file.ProcessingStatus, metadata.StatusProcessing); err != nil {
		return nil, err
	}

	start := o.now()
	result, err := o.run(ctx, file)
	if err != nil {
		o.transitionTerminal(ctx, fileID, metadata.StatusFailed)
		if isDomainError(err) {
			return nil, err
		}
		return nil, errors.ProcessingFailed(fileID, "pipeline", "processing pipeline failed", err)
	}

	result.ProcessingTime = o.now().Sub(start)
	result.Success = true
	o.transitionTerminal(ctx, fileID, metadata.StatusCompleted)

	o.log.Info("file processed", logger.Fields(
		logger.FieldFileID, fileID,
		logger.FieldContentType, file.ContentType,
		logger.FieldDuration, result.ProcessingTime.Milliseconds(),
		logger.FieldStatus, metadata.StatusCompleted,
	))
	return result, nil
}

// run executes the security check, dispatch, thumbnail and optimization
// steps. The caller owns the status transitions.
func (o *Orchestrator) run(ctx context.Context, file *metadata.FileMetadata) (*Result, error) {
	result := &Result{}

	threats, scanErr := o.security.Check(ctx, file)
	switch {
	case scanErr != nil:
		// Degraded mode: the check could not run. Flag and continue.
		o.updateScanStatus(ctx, file.ID, metadata.ScanFailed)
		result.warn(WarningScanFailed)
		o.log.Warn("security check errored, continuing degraded", logger.Fields(
			logger.FieldFileID, file.ID,
			logger.FieldError, scanErr.Error(),
		))
	case len(threats) > 0:
		o.updateScanStatus(ctx, file.ID, metadata.ScanInfected)
		return nil, errors.SecurityViolation(file.ID, threats)
	default:
		o.updateScanStatus(ctx, file.ID, metadata.ScanClean)
	}

	processor := o.registry.Lookup(file.ContentType)
	processed, err := processor.Process(ctx, file)
	if err != nil {
		return nil, err
	}
	result.ExtractedMetadata = processed.ExtractedMetadata
	result.Optimizations = processed.Optimizations
	result.Warnings = append(result.Warnings, processed.Warnings...)
	if processed.ThumbnailURL != "" {
		result.ThumbnailURL = processed.ThumbnailURL
	}

	if thumbnailEligible(file.ContentType) && result.ThumbnailURL == "" {
		url, thumbErr := processor.GenerateThumbnail(ctx, file, o.cfg.ThumbnailSize)
		if thumbErr != nil {
			result.warn(WarningThumbnailFailed)
			o.log.Warn("thumbnail generation failed", logger.Fields(
				logger.FieldFileID, file.ID,
				logger.FieldError, thumbErr.Error(),
			))
		} else {
			result.ThumbnailURL = url
		}
	}

	if optimizer, ok := processor.(Optimizer); ok {
		optimizations, optErr := optimizer.Optimize(ctx, file)
		if optErr != nil {
			result.warn(WarningOptimizeFailed)
			o.log.Warn("final optimization failed", logger.Fields(
				logger.FieldFileID, file.ID,
				logger.FieldError, optErr.Error(),
			))
		} else {
			result.Optimizations = append(result.Optimizations, optimizations...)
		}
	}

	return result, nil
}

// transitionTerminal moves PROCESSING to a terminal status. This must not
// fail silently into a stuck PROCESSING row, so a transition error is
// logged loudly.
func (o *Orchestrator) transitionTerminal(ctx context.Context, fileID, to string) {
	if err := o.files.TransitionStatus(ctx, fileID, metadata.StatusProcessing, to); err != nil {
		o.log.Error("terminal status transition failed", logger.Fields(
			logger.FieldFileID, fileID,
			logger.FieldStatus, to,
			logger.FieldError, err.Error(),
		))
	}
}

func (o *Orchestrator) updateScanStatus(ctx context.Context, fileID, status string) {
	if err := o.files.Update(ctx, fileID, map[string]any{"virus_scan_status": status}); err != nil {
		o.log.Warn("failed to record scan status", logger.Fields(
			logger.FieldFileID, fileID,
			logger.FieldError, err.Error(),
		))
	}
}

// isDomainError reports whether err is one of the typed pipeline errors
// that propagate unchanged.
func isDomainError(err error) bool {
	return errors.HasCode(err, errors.ErrCodeSecurityViolation) ||
		errors.HasCode(err, errors.ErrCodeInvalidProcessingState) ||
		errors.HasCode(err, errors.ErrCodeProcessingFailed) ||
		errors.HasCode(err, errors.ErrCodeCommandTimeout)
}
