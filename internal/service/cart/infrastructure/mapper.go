package infrastructure

import "bistro/internal/service/cart/domain"

// ToDomainCart 将数据库模型转换为领域模型。
func ToDomainCart(model *CartModel) *domain.Cart {
	if model == nil {
		return nil
	}
	lines := make([]domain.CartLine, 0, len(model.Lines))
	for i := range model.Lines {
		lines = append(lines, domain.CartLine{
			ID:        model.Lines[i].ID,
			ProductID: model.Lines[i].ProductID,
			Name:      model.Lines[i].Name,
			Price:     model.Lines[i].Price,
			Image:     model.Lines[i].Image,
			Quantity:  model.Lines[i].Quantity,
		})
	}
	return &domain.Cart{
		ID:        model.ID,
		UserID:    model.UserID,
		Lines:     lines,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// FromDomainCart 将领域模型转换为数据库模型。
func FromDomainCart(dmn *domain.Cart) *CartModel {
	if dmn == nil {
		return nil
	}
	lines := make([]CartLineModel, 0, len(dmn.Lines))
	for i := range dmn.Lines {
		lines = append(lines, CartLineModel{
			ID:        dmn.Lines[i].ID,
			CartID:    dmn.ID,
			ProductID: dmn.Lines[i].ProductID,
			Name:      dmn.Lines[i].Name,
			Price:     dmn.Lines[i].Price,
			Image:     dmn.Lines[i].Image,
			Quantity:  dmn.Lines[i].Quantity,
		})
	}
	return &CartModel{
		ID:        dmn.ID,
		UserID:    dmn.UserID,
		Lines:     lines,
		CreatedAt: dmn.CreatedAt,
		UpdatedAt: dmn.UpdatedAt,
	}
}
