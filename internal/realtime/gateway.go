package realtime

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/config"
	"github.com/jbedje/pme-360-backend-deploy/pkg/jwt"
)

// 客户端上行帧
type clientFrame struct {
	Type   string   `json:"type"`
	Topics []string `json:"topics,omitempty"`
}

// 服务端下行帧
type serverFrame struct {
	Type      string      `json:"type"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Topics    []string    `json:"topics,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func newFrame(frameType string) serverFrame {
	return serverFrame{Type: frameType, Timestamp: time.Now().Format(time.RFC3339)}
}

// Gateway 实时通知网关
// 负责 WebSocket 握手、鉴权、心跳维护与按用户推送。
// 推送是尽力而为：用户不在线或写入失败不算错误，通知已先行落库。
type Gateway struct {
	registry   *Registry
	jwtManager *jwt.Manager
	logger     *zap.Logger
	upgrader   websocket.Upgrader
	writeTO    time.Duration
	pongTO     time.Duration
	maxMsgSize int64
}

// NewGateway 创建实时网关
func NewGateway(cfg *config.WSConfig, allowOrigins []string, jwtManager *jwt.Manager, logger *zap.Logger) *Gateway {
	g := &Gateway{
		registry:   NewRegistry(),
		jwtManager: jwtManager,
		logger:     logger,
		writeTO:    cfg.WriteTimeout,
		pongTO:     cfg.PongTimeout,
		maxMsgSize: cfg.MaxMessageSize,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// 非浏览器客户端不带 Origin
				return true
			}
			for _, allowed := range allowOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
	return g
}

// Online 当前在线用户数
func (g *Gateway) Online() int {
	return g.registry.Len()
}

// Handle WebSocket 握手入口
// 令牌取自 query 参数 token（浏览器 WebSocket 无法自定义请求头），
// 兼容 Authorization: Bearer 头。鉴权放在升级之后，
// 这样失败时能通过关闭帧把原因告知客户端。
func (g *Gateway) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	ws, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.logger.Warn("WebSocket 升级失败", zap.Error(err))
		return
	}

	conn := newConn(ws, g.writeTO)

	if token == "" {
		conn.CloseWithCode(websocket.ClosePolicyViolation, "缺少访问令牌")
		return
	}
	claims, err := g.jwtManager.ParseToken(token)
	if err != nil || claims.TokenType != "access" {
		conn.CloseWithCode(websocket.ClosePolicyViolation, "令牌无效或已过期")
		return
	}

	userID := claims.UserID
	g.registry.Register(userID, conn)
	g.logger.Info("实时连接建立", zap.String("user_id", userID))

	ack := newFrame("connected")
	ack.Message = "通知通道已就绪"
	if err := conn.WriteJSON(ack); err != nil {
		g.registry.Unregister(userID, conn)
		_ = conn.Close()
		return
	}

	g.serve(userID, conn)
}

// serve 心跳与读循环，连接关闭后返回
func (g *Gateway) serve(userID string, conn *Conn) {
	defer func() {
		g.registry.Unregister(userID, conn)
		_ = conn.Close()
		g.logger.Info("实时连接断开", zap.String("user_id", userID))
	}()

	conn.ws.SetReadLimit(g.maxMsgSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(g.pongTO))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(g.pongTO))
	})

	done := make(chan struct{})
	defer close(done)

	// 服务端主动 ping，读截止时间依赖客户端 pong 续期
	go func() {
		ticker := time.NewTicker(g.pongTO * 8 / 10)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.Ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, raw, err := conn.ws.ReadMessage()
		if err != nil {
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			resp := newFrame("error")
			resp.Message = "无法解析的消息"
			if conn.WriteJSON(resp) != nil {
				return
			}
			continue
		}

		switch frame.Type {
		case "ping":
			resp := newFrame("pong")
			if conn.WriteJSON(resp) != nil {
				return
			}
		case "subscribe":
			// 订阅仅作确认，推送范围始终是该用户的全部通知
			resp := newFrame("subscribed")
			resp.Topics = frame.Topics
			if conn.WriteJSON(resp) != nil {
				return
			}
		default:
			resp := newFrame("error")
			resp.Message = "未知的消息类型: " + frame.Type
			if conn.WriteJSON(resp) != nil {
				return
			}
		}
	}
}

// Deliver 向单个用户推送一条通知，返回是否实际送达
// 用户不在线返回 false；写入失败时摘除连接并返回 false
func (g *Gateway) Deliver(userID string, payload interface{}) bool {
	conn, ok := g.registry.Lookup(userID)
	if !ok {
		return false
	}

	frame := newFrame("notification")
	frame.Data = payload
	if err := conn.WriteJSON(frame); err != nil {
		g.logger.Warn("通知推送失败，摘除连接",
			zap.String("user_id", userID), zap.Error(err))
		g.registry.Unregister(userID, conn)
		_ = conn.Close()
		return false
	}
	return true
}

// Broadcast 向全部在线用户推送，返回实际送达数
func (g *Gateway) Broadcast(payload interface{}) int {
	frame := newFrame("notification")
	frame.Data = payload

	delivered := 0
	for userID, conn := range g.registry.Snapshot() {
		if err := conn.WriteJSON(frame); err != nil {
			g.registry.Unregister(userID, conn)
			_ = conn.Close()
			continue
		}
		delivered++
	}
	return delivered
}

// Close 关闭全部连接（进程关闭时调用）
func (g *Gateway) Close() {
	g.registry.CloseAll()
}
