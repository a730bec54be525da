package domain

import "github.com/pkg/errors"

// Status 定义了订单的生命周期状态。
type Status string

const (
	StatusPending    Status = "pending"    // 刚创建，等待后厨接单
	StatusProcessing Status = "processing" // 后厨已接单
	StatusPreparing  Status = "preparing"  // 制作中
	StatusReady      Status = "ready"      // 可取餐/待配送
	StatusDelivered  Status = "delivered"  // 已送达（终态）
	StatusCancelled  Status = "cancelled"  // 已取消（终态）
)

var (
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// transitions 是唯一的状态机定义。cancelled 可以从任何非终态进入。
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusReady, StatusCancelled},
	StatusReady:      {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseStatus 校验外部传入的状态字符串。
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", errors.Wrapf(ErrInvalidStatus, "status %q", raw)
	}
	return s, nil
}

// IsTerminal 报告该状态是否为终态。
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo 报告从当前状态能否进入 next。
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
