package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/cache"
	"funkosrest/internal/dto"
	"funkosrest/internal/mapper"
	"funkosrest/internal/models"
	"funkosrest/internal/notification"
	"funkosrest/internal/pagination"
	"funkosrest/internal/repository"
	"funkosrest/internal/storage"
)

const (
	funkoNotFoundMsg = "No se ha encontrado el Funko con el UUID indicado"
	noImageMsg       = "No se ha enviado una imagen para el Funko"

	// FunkoEntity names funkos in change notifications.
	FunkoEntity = "FUNKOS"
)

func funkoNotFound() error { return apperr.FunkoNotFound(funkoNotFoundMsg) }

// Upload is an image received for a funko.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type FunkoService struct {
	repo       FunkoStore
	categories *CategoryService
	broker     notification.Broker
	cache      *cache.Entity[dto.FunkoResponse]
	files      storage.Service
	now        func() time.Time
	lg         *zap.SugaredLogger
}

type FunkoDeps struct {
	Repo       FunkoStore
	Categories *CategoryService
	// Broker may be nil; changes are then not announced.
	Broker notification.Broker
	// Cache may be nil.
	Cache *cache.Entity[dto.FunkoResponse]
	Files storage.Service
	Now   func() time.Time
	Log   *zap.SugaredLogger
}

func NewFunkoService(d FunkoDeps) *FunkoService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}
	s := &FunkoService{
		repo:       d.Repo,
		categories: d.Categories,
		broker:     d.Broker,
		cache:      d.Cache,
		files:      d.Files,
		now:        d.Now,
		lg:         d.Log,
	}
	if d.Categories != nil && d.Cache != nil {
		d.Categories.OnChange(s.categoryChanged)
	}
	return s
}

// categoryChanged drops cached funkos, which embed their category.
func (s *FunkoService) categoryChanged(ctx context.Context, id int64) {
	s.cache.Clear(ctx)
	s.lg.Debugw("funko cache cleared", "category", id)
}

func (s *FunkoService) FindAll(ctx context.Context, f repository.FunkoFilter, req pagination.Request) (pagination.Page[dto.FunkoResponse], error) {
	p, err := s.repo.FindAll(ctx, f.Spec(), req)
	if err != nil {
		return pagination.Page[dto.FunkoResponse]{}, apperr.Internal(err)
	}
	if err := checkPage(p); err != nil {
		return pagination.Page[dto.FunkoResponse]{}, err
	}
	return pagination.Map(p, mapper.ToFunkoResponse), nil
}

func (s *FunkoService) FindByID(ctx context.Context, id string) (dto.FunkoResponse, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return dto.FunkoResponse{}, err
	}
	if cached, ok := s.cache.Get(ctx, uid.String()); ok {
		return cached, nil
	}
	f, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return dto.FunkoResponse{}, storeErr(err, funkoNotFound)
	}
	out := mapper.ToFunkoResponse(*f)
	s.cache.Set(ctx, uid.String(), out)
	return out, nil
}

func (s *FunkoService) Create(ctx context.Context, in dto.FunkoCreate) (dto.FunkoResponse, error) {
	if err := dto.Validate(in); err != nil {
		return dto.FunkoResponse{}, err
	}
	c, err := s.categories.Resolve(ctx, *in.CategoryID)
	if err != nil {
		return dto.FunkoResponse{}, err
	}
	f := mapper.ToFunko(in, *c)
	if err := s.repo.Create(ctx, &f); err != nil {
		return dto.FunkoResponse{}, apperr.Internal(err)
	}
	s.lg.Infow("funko created", "id", f.ID, "category", c.Type)
	return s.changed(ctx, notification.Create, f), nil
}

func (s *FunkoService) Update(ctx context.Context, id string, in dto.FunkoUpdate) (dto.FunkoResponse, error) {
	if err := dto.Validate(in); err != nil {
		return dto.FunkoResponse{}, err
	}
	f, err := s.get(ctx, id)
	if err != nil {
		return dto.FunkoResponse{}, err
	}
	c, err := s.categories.Resolve(ctx, *in.CategoryID)
	if err != nil {
		return dto.FunkoResponse{}, err
	}
	mapper.ApplyFunkoUpdate(f, in, *c)
	return s.save(ctx, f)
}

func (s *FunkoService) Patch(ctx context.Context, id string, in dto.FunkoPatch) (dto.FunkoResponse, error) {
	if err := dto.Validate(in); err != nil {
		return dto.FunkoResponse{}, err
	}
	f, err := s.get(ctx, id)
	if err != nil {
		return dto.FunkoResponse{}, err
	}
	var c *models.Category
	if in.CategoryID != nil {
		if c, err = s.categories.Resolve(ctx, *in.CategoryID); err != nil {
			return dto.FunkoResponse{}, err
		}
	}
	mapper.ApplyFunkoPatch(f, in, c)
	return s.save(ctx, f)
}

// Delete removes the funko and announces its last state. A stored image
// is removed as well.
func (s *FunkoService) Delete(ctx context.Context, id string) error {
	f, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, f.ID); err != nil {
		return storeErr(err, funkoNotFound)
	}
	s.removeImage(ctx, f.ID.String(), f.Image)
	s.cache.Delete(ctx, f.ID.String())
	s.publish(ctx, notification.Delete, *f)
	s.lg.Infow("funko deleted", "id", f.ID)
	return nil
}

// UpdateImage stores up as the funko's new image and drops the previous
// stored one unless it is the default image.
func (s *FunkoService) UpdateImage(ctx context.Context, id string, up Upload) (dto.FunkoResponse, error) {
	f, err := s.get(ctx, id)
	if err != nil {
		return dto.FunkoResponse{}, err
	}
	if up.Body == nil || up.Size == 0 {
		return dto.FunkoResponse{}, apperr.BadRequest(noImageMsg)
	}
	name, err := storage.StoredName(f.ID.String(), up.Filename, s.now())
	if err != nil {
		return dto.FunkoResponse{}, err
	}
	ct := up.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = storage.ContentType(name)
	}
	if err := s.files.Store(ctx, name, ct, up.Body, up.Size); err != nil {
		if _, ok := apperr.As(err); ok {
			return dto.FunkoResponse{}, err
		}
		return dto.FunkoResponse{}, apperr.Internal(err)
	}

	previous := f.Image
	f.Image = s.files.URL(name)
	out, err := s.save(ctx, f)
	if err != nil {
		s.removeImage(ctx, f.ID.String(), f.Image)
		return dto.FunkoResponse{}, err
	}
	s.removeImage(ctx, f.ID.String(), previous)
	return out, nil
}

func (s *FunkoService) get(ctx context.Context, id string) (*models.Funko, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	f, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, storeErr(err, funkoNotFound)
	}
	return f, nil
}

func (s *FunkoService) save(ctx context.Context, f *models.Funko) (dto.FunkoResponse, error) {
	if err := s.repo.Save(ctx, f); err != nil {
		return dto.FunkoResponse{}, storeErr(err, funkoNotFound)
	}
	return s.changed(ctx, notification.Update, *f), nil
}

// changed refreshes the cache entry and announces the new state.
func (s *FunkoService) changed(ctx context.Context, typ notification.Type, f models.Funko) dto.FunkoResponse {
	out := mapper.ToFunkoResponse(f)
	s.cache.Set(ctx, f.ID.String(), out)
	s.publish(ctx, typ, f)
	return out
}

// publish is best effort: the mutation already happened.
func (s *FunkoService) publish(ctx context.Context, typ notification.Type, f models.Funko) {
	if s.broker == nil {
		return
	}
	n, err := notification.New(FunkoEntity, typ, mapper.ToFunkoNotification(f))
	if err == nil {
		err = notification.Publish(ctx, s.broker, notification.FunkosChannel, n)
	}
	if err != nil {
		s.lg.Warnw("funko notification not sent", "id", f.ID, "type", typ, "err", err)
	}
}

// removeImage deletes url from storage when it is a file stored for owner.
func (s *FunkoService) removeImage(ctx context.Context, owner, url string) {
	if url == "" || url == models.DefaultFunkoImage || s.files == nil {
		return
	}
	name, ok := storage.FilenameFromURL(s.files, url)
	if !ok || !storage.OwnedBy(name, owner) {
		return
	}
	if err := s.files.Delete(ctx, name); err != nil {
		s.lg.Warnw("stored image not removed", "file", name, "err", err)
	}
}
