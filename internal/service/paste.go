package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"pastebin/internal/id"
	"pastebin/internal/metrics"
	"pastebin/internal/model"
	"pastebin/internal/repository"
	"pastebin/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("paste not found")
	ErrContentRequired  = errors.New("content is required")
	ErrContentTooLarge  = errors.New("content too large")
	ErrTitleTooLong     = errors.New("title too long")
	ErrInvalidExpiry    = errors.New("invalid expiry tag")
	ErrEncryptionParams = errors.New("encryption iv and salt are required for encrypted pastes")

	// ErrStorageUnavailable wraps transient backend failures (object store or
	// database), including timeouts. The service does not retry; retry policy
	// belongs to the caller.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// IsValidation reports whether err is one of the input validation failures,
// which are never retried and are surfaced to the caller verbatim.
func IsValidation(err error) bool {
	return errors.Is(err, ErrContentRequired) ||
		errors.Is(err, ErrContentTooLarge) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrInvalidExpiry) ||
		errors.Is(err, ErrEncryptionParams)
}

const (
	maxTitleLen = 255
	maxEncParam = 64
	contentType = "text/plain; charset=utf-8"
	keyPrefix   = "pastes/"
	defaultLang = "text"

	// A burn-after paste is deleted once its view count reaches 2: the first
	// view is consumed by the creator's own redirect-and-display right after
	// submission, the second is the recipient's. The threshold is deliberate;
	// changing it to 1 would burn pastes before anyone else sees them.
	burnThreshold = 2
)

// PasteService defines the paste lifecycle use cases. All deletion paths
// (expiry, burn, sweep) remove the content blob before the metadata row, the
// reverse of creation order, so a metadata row never outlives the window in
// which its content can still appear. The brief row-without-blob gap is
// tolerated by mapping it to ErrNotFound on read.
type PasteService interface {
	// Create validates the input, stores the content blob, then inserts the
	// metadata row, and returns the new paste id.
	Create(ctx context.Context, in model.CreatePasteInput, ipHash string) (string, error)

	// Retrieve returns the paste with its content, counting the view and
	// applying lazy expiry and burn-after-reading. The caller of the view
	// that crosses the burn threshold still receives the content; only
	// future callers see it gone.
	Retrieve(ctx context.Context, pasteID string) (*model.PasteView, error)

	// RetrieveMetadata returns the paste without content and without counting
	// a view. Lazy expiry still applies.
	RetrieveMetadata(ctx context.Context, pasteID string) (*model.PasteMetadata, error)

	// RetrieveRaw returns the raw content without counting a view and without
	// evaluating burn, so raw fetches never consume views toward the burn
	// threshold. Lazy expiry still applies.
	RetrieveRaw(ctx context.Context, pasteID string) (string, error)

	// SweepExpired deletes up to batchSize expired pastes and returns how
	// many were removed. Per-record failures are skipped, not fatal.
	SweepExpired(ctx context.Context, batchSize int) (int, error)
}

// pasteService is a concrete implementation of PasteService.
type pasteService struct {
	store           storage.Storage
	repo            repository.PasteRepository
	ids             *id.Generator
	maxContentBytes int64
	opTimeout       time.Duration
	now             func() time.Time
}

// Options tune the lifecycle service.
type Options struct {
	MaxContentBytes int64
	OpTimeout       time.Duration
}

// NewPasteService constructs a new PasteService.
func NewPasteService(store storage.Storage, repo repository.PasteRepository, ids *id.Generator, opts Options) PasteService {
	if opts.MaxContentBytes <= 0 {
		opts.MaxContentBytes = 2_000_000
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 5 * time.Second
	}
	return &pasteService{
		store:           store,
		repo:            repo,
		ids:             ids,
		maxContentBytes: opts.MaxContentBytes,
		opTimeout:       opts.OpTimeout,
		now:             time.Now,
	}
}

// contentKey derives the blob store key for a paste. Deterministic and
// collision-free because ids are unique.
func contentKey(pasteID string) string {
	return keyPrefix + pasteID
}

func (s *pasteService) Create(ctx context.Context, in model.CreatePasteInput, ipHash string) (string, error) {
	if err := validateCreate(&in, s.maxContentBytes); err != nil {
		return "", err
	}

	pasteID, err := s.ids.Generate()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}

	now := s.now().UTC()

	// Content goes in first. A crash between the put and the insert leaves an
	// orphaned blob, which is acceptable garbage; the reverse order could
	// leave a visible row with no content, which is not.
	key := contentKey(pasteID)
	if err := s.putContent(ctx, key, in.Content); err != nil {
		return "", err
	}

	paste := &model.Paste{
		ID:             pasteID,
		Title:          in.Title,
		Language:       in.Language,
		IsEncrypted:    in.IsEncrypted,
		EncryptionIV:   in.EncryptionIV,
		EncryptionSalt: in.EncryptionSalt,
		BurnAfter:      in.BurnAfter,
		ExpiresAt:      in.ExpiresIn.ExpiresAt(now),
		ViewCount:      0,
		SizeBytes:      int64(len(in.Content)),
		ContentKey:     key,
		CreatedAt:      now,
		IPHash:         ipHash,
	}

	err = s.insert(ctx, paste)
	if errors.Is(err, repository.ErrDuplicateID) {
		// Vanishingly rare with the generator's entropy. Regenerate once and
		// retry under a fresh id; the first blob becomes reclaimable garbage.
		staleKey := key
		pasteID, err = s.ids.Generate()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		key = contentKey(pasteID)
		if err := s.putContent(ctx, key, in.Content); err != nil {
			return "", err
		}
		paste.ID = pasteID
		paste.ContentKey = key
		err = s.insert(ctx, paste)
		s.deleteBlobQuietly(ctx, staleKey)
	}
	if err != nil {
		// The blob is orphaned; reclaim best-effort and report the failure.
		s.deleteBlobQuietly(ctx, key)
		return "", err
	}

	metrics.PastesCreated.Inc()
	return pasteID, nil
}

func (s *pasteService) Retrieve(ctx context.Context, pasteID string) (*model.PasteView, error) {
	paste, err := s.find(ctx, pasteID)
	if err != nil {
		return nil, err
	}

	if paste.Expired(s.now()) {
		s.expireNow(ctx, paste)
		return nil, ErrNotFound
	}

	content, err := s.getContent(ctx, paste.ContentKey)
	if err != nil {
		return nil, err
	}

	count, err := s.incrementViews(ctx, paste.ID)
	if err != nil {
		return nil, err
	}

	if paste.BurnAfter && count >= burnThreshold {
		// Blob first, then row; this caller keeps the content it already
		// fetched, everyone after sees not-found.
		if err := s.deletePaste(ctx, paste.ID, paste.ContentKey); err != nil {
			log.Printf("burn delete failed for paste %s: %v", paste.ID, err)
		} else {
			metrics.PastesBurned.Inc()
		}
	}

	meta := paste.Metadata()
	meta.ViewCount = count
	metrics.PastesRetrieved.Inc()
	return &model.PasteView{PasteMetadata: *meta, Content: content}, nil
}

func (s *pasteService) RetrieveMetadata(ctx context.Context, pasteID string) (*model.PasteMetadata, error) {
	paste, err := s.find(ctx, pasteID)
	if err != nil {
		return nil, err
	}

	if paste.Expired(s.now()) {
		s.expireNow(ctx, paste)
		return nil, ErrNotFound
	}

	return paste.Metadata(), nil
}

func (s *pasteService) RetrieveRaw(ctx context.Context, pasteID string) (string, error) {
	paste, err := s.find(ctx, pasteID)
	if err != nil {
		return "", err
	}

	if paste.Expired(s.now()) {
		s.expireNow(ctx, paste)
		return "", ErrNotFound
	}

	// No view-count increment and no burn evaluation here: raw fetches do not
	// consume views toward the burn threshold.
	return s.getContent(ctx, paste.ContentKey)
}

func (s *pasteService) SweepExpired(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	expired, err := s.repo.ListExpiredBefore(ctx, s.now().UTC(), batchSize)
	if err != nil {
		return 0, fmt.Errorf("%w: list expired: %v", ErrStorageUnavailable, err)
	}

	deleted := 0
	for i := range expired {
		p := &expired[i]
		if err := s.deletePaste(ctx, p.ID, p.ContentKey); err != nil {
			// Each record is attempted independently; a failure here leaves
			// the row for the next cycle.
			log.Printf("sweep delete failed for paste %s: %v", p.ID, err)
			continue
		}
		deleted++
	}

	metrics.SweepCycles.Inc()
	metrics.PastesSwept.Add(float64(deleted))
	return deleted, nil
}

func validateCreate(in *model.CreatePasteInput, maxContentBytes int64) error {
	if in.Content == "" {
		return ErrContentRequired
	}
	if int64(len(in.Content)) > maxContentBytes {
		return ErrContentTooLarge
	}
	if len(in.Title) > maxTitleLen {
		return ErrTitleTooLong
	}
	if !in.ExpiresIn.Valid() {
		return ErrInvalidExpiry
	}
	if in.IsEncrypted {
		if in.EncryptionIV == "" || in.EncryptionSalt == "" {
			return ErrEncryptionParams
		}
		if len(in.EncryptionIV) > maxEncParam || len(in.EncryptionSalt) > maxEncParam {
			return ErrEncryptionParams
		}
	} else {
		// Stray parameters without the flag are meaningless; drop them.
		in.EncryptionIV = ""
		in.EncryptionSalt = ""
	}
	if in.Language == "" {
		in.Language = defaultLang
	}
	return nil
}

// find loads the metadata row, collapsing "no row" into ErrNotFound and any
// backend failure into ErrStorageUnavailable so a slow database is never
// mistaken for a missing paste.
func (s *pasteService) find(ctx context.Context, pasteID string) (*model.Paste, error) {
	if pasteID == "" {
		return nil, ErrIDRequired
	}
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	paste, err := s.repo.FindByID(opCtx, pasteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find paste: %v", ErrStorageUnavailable, err)
	}
	return paste, nil
}

func (s *pasteService) insert(ctx context.Context, p *model.Paste) error {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	err := s.repo.Insert(opCtx, p)
	if err != nil && !errors.Is(err, repository.ErrDuplicateID) {
		return fmt.Errorf("%w: insert paste: %v", ErrStorageUnavailable, err)
	}
	return err
}

func (s *pasteService) incrementViews(ctx context.Context, pasteID string) (int, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	count, err := s.repo.IncrementViewCount(opCtx, pasteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The row vanished between the read and the increment (a racing
			// burn or sweep won); to this caller the paste is simply gone.
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: increment views: %v", ErrStorageUnavailable, err)
	}
	return count, nil
}

func (s *pasteService) putContent(ctx context.Context, key, content string) error {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	_, err := s.store.Put(opCtx, key, strings.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%w: put content: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// getContent fetches the blob. A missing object while the row exists is the
// tolerated orphan window and reads as ErrNotFound, never as a server error.
func (s *pasteService) getContent(ctx context.Context, key string) (string, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	rc, _, err := s.store.Get(opCtx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: get content: %v", ErrStorageUnavailable, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: read content: %v", ErrStorageUnavailable, err)
	}
	return string(b), nil
}

// deletePaste removes the blob and then the row. If the blob delete fails the
// row is kept so the record stays queryable and a later pass can finish the
// job; deleting the row first could strand content forever.
func (s *pasteService) deletePaste(ctx context.Context, pasteID, key string) error {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.store.Delete(opCtx, key); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if err := s.repo.Delete(opCtx, pasteID); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	return nil
}

// expireNow eagerly removes a paste found expired during a read. The read
// returns not-found regardless of whether the deletion itself succeeds; the
// sweep will catch anything left behind.
func (s *pasteService) expireNow(ctx context.Context, p *model.Paste) {
	if err := s.deletePaste(ctx, p.ID, p.ContentKey); err != nil {
		log.Printf("expiry delete failed for paste %s: %v", p.ID, err)
		return
	}
	metrics.PastesExpired.Inc()
}

func (s *pasteService) deleteBlobQuietly(ctx context.Context, key string) {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	if err := s.store.Delete(opCtx, key); err != nil {
		log.Printf("orphan blob cleanup failed for %s: %v", key, err)
	}
}
