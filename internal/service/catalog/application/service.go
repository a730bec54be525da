package application

import (
	"context"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bistro/internal/service/catalog/domain"
)

// canonicalIDPattern 匹配持久化层生成的规范标识（24 位十六进制）。
var canonicalIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// CatalogService 提供商品引用解析与目录浏览。
type CatalogService struct {
	repo   domain.ProductRepository
	tracer trace.Tracer
}

func NewCatalogService(repo domain.ProductRepository, tracer trace.Tracer) *CatalogService {
	return &CatalogService{repo: repo, tracer: tracer}
}

// Resolve 把一个外部商品引用解析为唯一的目录记录。
//
// 目录经历过一次从数字 ID 种子数据到生成式标识存储的迁移，
// 两套标识在迁移窗口期内必须都能命中同一实体。解析顺序：
//  1. 引用在形态上是规范标识 → 按规范标识查；
//  2. 未命中或形态不符 → 按整数解析后查迁移前标识；
//  3. 都未命中 → ErrProductNotFound（附带原始引用）。
//
// 调用方不需要、也不应该感知某个引用属于哪套标识体系。
func (s *CatalogService) Resolve(ctx context.Context, reference string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("product.reference", reference))

	if canonicalIDPattern.MatchString(reference) {
		product, err := s.repo.FindByID(ctx, reference)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, domain.ErrProductNotFound) {
			span.RecordError(err)
			return nil, err
		}
	}

	if legacyID, parseErr := strconv.ParseInt(reference, 10, 64); parseErr == nil {
		product, err := s.repo.FindByLegacyID(ctx, legacyID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, domain.ErrProductNotFound) {
			span.RecordError(err)
			return nil, err
		}
	}

	return nil, errors.Wrapf(domain.ErrProductNotFound, "reference %q", reference)
}

// List 按条件列出目录商品。
func (s *CatalogService) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.List")
	defer span.End()
	return s.repo.List(ctx, filter)
}
