package infrastructure

import (
	"database/sql"

	"bistro/internal/service/order/domain"
)

// ToDomainOrder 将数据库模型转换为领域模型。
func ToDomainOrder(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}
	lines := make([]domain.OrderLine, 0, len(model.Lines))
	for i := range model.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID: model.Lines[i].ProductID,
			Name:      model.Lines[i].Name,
			Price:     model.Lines[i].Price,
			Image:     model.Lines[i].Image,
			Quantity:  model.Lines[i].Quantity,
		})
	}
	return &domain.Order{
		ID:          model.ID,
		Number:      model.Number,
		UserID:      model.UserID,
		Lines:       lines,
		Subtotal:    model.Subtotal,
		DeliveryFee: model.DeliveryFee,
		Discount:    model.Discount,
		Total:       model.Total,
		CouponCode:  model.CouponCode.String,
		Address: domain.Address{
			Street:     model.Street,
			City:       model.City,
			PostalCode: model.PostalCode,
			Phone:      model.Phone,
		},
		PaymentMethod: domain.PaymentMethod(model.PaymentMethod),
		Status:        domain.Status(model.Status),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// FromDomainOrder 将领域模型转换为数据库模型。
func FromDomainOrder(dmn *domain.Order) *OrderModel {
	if dmn == nil {
		return nil
	}
	lines := make([]OrderLineModel, 0, len(dmn.Lines))
	for i := range dmn.Lines {
		lines = append(lines, OrderLineModel{
			OrderID:   dmn.ID,
			ProductID: dmn.Lines[i].ProductID,
			Name:      dmn.Lines[i].Name,
			Price:     dmn.Lines[i].Price,
			Image:     dmn.Lines[i].Image,
			Quantity:  dmn.Lines[i].Quantity,
		})
	}
	couponCode := sql.NullString{}
	if dmn.CouponCode != "" {
		couponCode = sql.NullString{String: dmn.CouponCode, Valid: true}
	}
	return &OrderModel{
		ID:            dmn.ID,
		Number:        dmn.Number,
		UserID:        dmn.UserID,
		Lines:         lines,
		Subtotal:      dmn.Subtotal,
		DeliveryFee:   dmn.DeliveryFee,
		Discount:      dmn.Discount,
		Total:         dmn.Total,
		CouponCode:    couponCode,
		Street:        dmn.Address.Street,
		City:          dmn.Address.City,
		PostalCode:    dmn.Address.PostalCode,
		Phone:         dmn.Address.Phone,
		PaymentMethod: string(dmn.PaymentMethod),
		Status:        string(dmn.Status),
		CreatedAt:     dmn.CreatedAt,
		UpdatedAt:     dmn.UpdatedAt,
	}
}
