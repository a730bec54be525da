// cmd/notification-service/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"bistro/internal/pkg/bootstrap"
	"bistro/internal/pkg/logger"
	"bistro/internal/pkg/mq"
	"bistro/internal/pkg/tracing"
	orderdomain "bistro/internal/service/order/domain"
)

const (
	serviceName     = "notification-service"
	consumerGroupID = "notification-group"
)

var (
	tracer   = otel.Tracer(serviceName)
	nodeID   = serviceName + "-" + uuid.New().String()[:8]
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool { // 简化处理，允许所有跨域
			return true
		},
	}
)

// Hub 维护所有活跃的连接，并按 UserID 定向推送。
type Hub struct {
	clients    map[string]*Client // 使用UserID作为Key
	register   chan *Client
	unregister chan *Client
	lock       sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) run(ctx context.Context) error {
	for {
		select {
		case client := <-h.register:
			h.lock.Lock()
			h.clients[client.userID] = client
			h.lock.Unlock()
			logger.Logger.Info().Str("user_id", client.userID).Str("node", nodeID).Msg("client registered")
		case client := <-h.unregister:
			h.lock.Lock()
			if _, ok := h.clients[client.userID]; ok {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.lock.Unlock()
			logger.Logger.Info().Str("user_id", client.userID).Msg("client unregistered")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// push 将消息投递到指定用户的连接。用户不在线时静默丢弃。
func (h *Hub) push(userID string, payload []byte) bool {
	h.lock.RLock()
	client, ok := h.clients[userID]
	h.lock.RUnlock()
	if !ok {
		return false
	}
	select {
	case client.send <- payload:
		return true
	default: // 发送缓冲已满，断开慢客户端
		h.unregister <- client
		return false
	}
}

// Client 是一个WebSocket连接的代表
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		// 只读取心跳等控制消息，内容丢弃
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func serveWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), userID: userID}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// notification 是推送给前端的消息结构。
type notification struct {
	Type        string `json:"type"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// processOrderEvent 处理从 Kafka 收到的单条订单事件并推送给对应用户。
func processOrderEvent(hub *Hub, msg kafka.Message) {
	// 从消息头中提取追踪上下文，将本次消费挂到上游链路上
	ctx := mq.ExtractTraceContext(context.Background(), msg)

	spanOpts := []trace.SpanStartOption{
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
		),
		trace.WithSpanKind(trace.SpanKindConsumer),
	}
	ctx, span := tracer.Start(ctx, "notification-service.ProcessOrderEvent", spanOpts...)
	defer span.End()

	var event orderdomain.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal order event")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(
		attribute.String("user.id", event.UserID),
		attribute.String("order.number", event.OrderNumber),
		attribute.String("event.type", event.Type),
	)

	var text string
	switch event.Type {
	case orderdomain.EventOrderCreated:
		text = fmt.Sprintf("Order %s received, total %.2f", event.OrderNumber, event.Total)
	case orderdomain.EventOrderStatusChanged:
		text = fmt.Sprintf("Order %s is now %s", event.OrderNumber, event.Status)
	default:
		logger.Ctx(ctx).Warn().Str("type", event.Type).Msg("unknown event type, skipping")
		return
	}

	payload, _ := json.Marshal(notification{
		Type:        event.Type,
		OrderNumber: event.OrderNumber,
		Status:      event.Status,
		Message:     text,
	})
	if hub.push(event.UserID, payload) {
		span.AddEvent("notification pushed")
		logger.Ctx(ctx).Info().Str("user_id", event.UserID).Str("order_number", event.OrderNumber).Msg("notification pushed")
	} else {
		// 用户不在线属正常情况，不算错误
		logger.Ctx(ctx).Debug().Str("user_id", event.UserID).Msg("user not connected, notification dropped")
	}
}

func main() {
	logger.Init(serviceName)
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	tp, err := tracing.InitTracerProvider(serviceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	hub := newHub()
	reader := mq.NewKafkaReader(strings.Split(cfg.Infra.Kafka.Brokers, ","), cfg.Infra.Kafka.OrderTopic, consumerGroupID)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.HTTPPort),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.run(ctx)
	})
	g.Go(func() error {
		// 循环消费订单事件
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Logger.Error().Err(err).Msg("could not read message")
				continue
			}
			go processOrderEvent(hub, msg)
		}
	})
	g.Go(func() error {
		logger.Logger.Info().Str("node", nodeID).Int("port", cfg.App.HTTPPort).Msg("notification service started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error().Err(err).Msg("error shutting down http server")
		}
		if err := reader.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("error closing kafka reader")
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error().Err(err).Msg("error shutting down tracer provider")
		}
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Logger.Error().Err(err).Msg("service exited with error")
		os.Exit(1)
	}
	logger.Logger.Info().Msg("notification service stopped")
}
