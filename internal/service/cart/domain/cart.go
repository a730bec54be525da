package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// CartLine 是购物车中的一行：一个已解析的商品加数量。
// 名称/价格/图片是加购瞬间从目录拷贝的快照，此后目录怎么改
// 都不会影响这一行——"冻结在加购时刻" 是有意的设计，
// 防止在途购物车的价格被悄悄改掉。
type CartLine struct {
	ID        string
	ProductID string
	Name      string
	Price     float64
	Image     string
	Quantity  int
}

// Cart 是购物车聚合根，每个用户恰好一个。
type Cart struct {
	ID        string
	UserID    string
	Lines     []CartLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCart 创建一个空购物车。
func NewCart(userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Lines:     nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddLine 加入一个商品。同一商品重复加购会合并到已有行上
// （数量累加），聚合内不允许出现两行指向同一个商品。
func (c *Cart) AddLine(productID, name string, price float64, image string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += quantity
			c.touch()
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ID:        uuid.NewString(),
		ProductID: productID,
		Name:      name,
		Price:     price,
		Image:     image,
		Quantity:  quantity,
	})
	c.touch()
	return nil
}

// SetQuantity 把某一行的数量设置为给定值（不是增量）。
// 数量下限是 1：想删除一行必须显式调用 RemoveLine，
// 聚合里永远不会存在数量为零的行。
func (c *Cart) SetQuantity(lineID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines[i].Quantity = quantity
			c.touch()
			return nil
		}
	}
	return errors.Wrapf(ErrLineNotFound, "line %q", lineID)
}

// RemoveLine 删除一行。删除不存在的行是幂等的成功，不是错误。
func (c *Cart) RemoveLine(lineID string) {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return
		}
	}
}

// Clear 清空所有行。幂等。
func (c *Cart) Clear() {
	if len(c.Lines) == 0 {
		return
	}
	c.Lines = nil
	c.touch()
}

// Subtotal 返回快照价格×数量的合计，保留两位小数。
func (c *Cart) Subtotal() float64 {
	total := decimal.Zero
	for i := range c.Lines {
		line := decimal.NewFromFloat(c.Lines[i].Price).
			Mul(decimal.NewFromInt(int64(c.Lines[i].Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Round(2).Float64()
	return f
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
