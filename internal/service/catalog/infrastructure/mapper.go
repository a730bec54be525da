package infrastructure

import (
	"database/sql"
	"strings"

	"bistro/internal/service/catalog/domain"
)

// ToDomainProduct 将数据库模型转换为领域模型。
func ToDomainProduct(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	var legacyID *int64
	if model.LegacyID.Valid {
		v := model.LegacyID.Int64
		legacyID = &v
	}
	var badges []string
	if model.Badges != "" {
		badges = strings.Split(model.Badges, ",")
	}
	return &domain.Product{
		ID:          model.ID,
		LegacyID:    legacyID,
		Name:        model.Name,
		Description: model.Description,
		Price:       model.Price,
		Image:       model.Image,
		Category:    domain.Category(model.Category),
		Vegetarian:  model.Vegetarian,
		Badges:      badges,
		Featured:    model.Featured,
		Available:   model.Available,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// FromDomainProduct 将领域模型转换为数据库模型。
func FromDomainProduct(dmn *domain.Product) *ProductModel {
	if dmn == nil {
		return nil
	}
	legacyID := sql.NullInt64{}
	if dmn.LegacyID != nil {
		legacyID = sql.NullInt64{Int64: *dmn.LegacyID, Valid: true}
	}
	return &ProductModel{
		ID:          dmn.ID,
		LegacyID:    legacyID,
		Name:        dmn.Name,
		Description: dmn.Description,
		Price:       dmn.Price,
		Image:       dmn.Image,
		Category:    string(dmn.Category),
		Vegetarian:  dmn.Vegetarian,
		Badges:      strings.Join(dmn.Badges, ","),
		Featured:    dmn.Featured,
		Available:   dmn.Available,
		CreatedAt:   dmn.CreatedAt,
		UpdatedAt:   dmn.UpdatedAt,
	}
}
