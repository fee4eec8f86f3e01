package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/sabaispa/sabai/internal/catalog/domain"
	pkgdb "github.com/sabaispa/sabai/pkg/db"
	"github.com/sabaispa/sabai/pkg/db/pagination"
	"github.com/sabaispa/sabai/pkg/i18n"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateTreatment(ctx context.Context, req domain.CreateTreatmentRequest) (domain.Treatment, error) {
	name := req.Name.Resolve(i18n.DefaultLocale)
	if strings.TrimSpace(name) == "" {
		return domain.Treatment{}, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return domain.Treatment{}, domain.ErrInvalidPrice
	}

	now := time.Now().UTC()
	treatment := domain.Treatment{
		ID:              s.genID.Generate(),
		Slug:            slug.Make(name),
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.InsertTreatment(ctx, s.db, &treatment); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Treatment{}, domain.ErrSlugTaken
		}
		return domain.Treatment{}, err
	}
	return treatment, nil
}

func (s *Service) GetTreatment(ctx context.Context, id string) (domain.Treatment, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Treatment{}, err
	}
	item, err := s.repo.FindTreatmentByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Treatment{}, err
	}
	if item == nil {
		return domain.Treatment{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListTreatments(ctx context.Context, req domain.ListRequest) ([]domain.Treatment, error) {
	items, err := s.repo.ListTreatments(ctx, s.db, domain.ListFilter{
		Slug:       strings.TrimSpace(req.Slug),
		ActiveOnly: req.ActiveOnly,
	}, pagination.Pagination{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		return nil, err
	}
	treatments := make([]domain.Treatment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		treatments = append(treatments, *item)
	}
	return treatments, nil
}

func (s *Service) ListAddons(ctx context.Context, treatmentID string) ([]domain.Addon, error) {
	parsed, err := parseID(treatmentID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListAddons(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	addons := make([]domain.Addon, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		addons = append(addons, *item)
	}
	return addons, nil
}

func (s *Service) CreateAddon(ctx context.Context, req domain.CreateAddonRequest) (domain.Addon, error) {
	treatmentID, err := parseID(req.TreatmentID)
	if err != nil {
		return domain.Addon{}, err
	}
	name := req.Name.Resolve(i18n.DefaultLocale)
	if strings.TrimSpace(name) == "" {
		return domain.Addon{}, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return domain.Addon{}, domain.ErrInvalidPrice
	}

	treatment, err := s.repo.FindTreatmentByID(ctx, s.db, treatmentID)
	if err != nil {
		return domain.Addon{}, err
	}
	if treatment == nil {
		return domain.Addon{}, domain.ErrNotFound
	}

	now := time.Now().UTC()
	addon := domain.Addon{
		ID:          s.genID.Generate(),
		TreatmentID: treatmentID,
		Slug:        slug.Make(treatment.Slug + " " + name),
		Name:        req.Name,
		Price:       req.Price,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertAddon(ctx, s.db, &addon); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Addon{}, domain.ErrSlugTaken
		}
		return domain.Addon{}, err
	}
	return addon, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	name := req.Name.Resolve(i18n.DefaultLocale)
	if strings.TrimSpace(name) == "" {
		return domain.Product{}, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if req.Stock < 0 {
		return domain.Product{}, domain.ErrInvalidStock
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        s.genID.Generate(),
		Slug:      slug.Make(name),
		Name:      req.Name,
		Price:     req.Price,
		Stock:     req.Stock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertProduct(ctx, s.db, &product); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Product{}, domain.ErrSlugTaken
		}
		return domain.Product{}, err
	}
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Product{}, err
	}
	item, err := s.repo.FindProductByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListProducts(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	items, err := s.repo.ListProducts(ctx, s.db, domain.ListFilter{
		Slug:       strings.TrimSpace(req.Slug),
		ActiveOnly: req.ActiveOnly,
	}, pagination.Pagination{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		products = append(products, *item)
	}
	return products, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
