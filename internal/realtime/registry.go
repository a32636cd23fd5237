package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn 单个实时连接的句柄
// 写锁保证推送、广播与心跳帧不会交错写入底层连接
type Conn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
	writeMu      sync.Mutex
}

func newConn(ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{ws: ws, writeTimeout: writeTimeout}
}

// WriteJSON 带写超时的 JSON 帧写入
func (c *Conn) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}

// Ping 发送 websocket ping 控制帧
func (c *Conn) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

// CloseWithCode 发送关闭帧后关闭连接
func (c *Conn) CloseWithCode(code int, reason string) {
	c.writeMu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(c.writeTimeout))
	c.writeMu.Unlock()
	_ = c.ws.Close()
}

// Close 关闭底层连接
func (c *Conn) Close() error {
	return c.ws.Close()
}

// Registry 用户 → 活跃连接的独占映射
// 每个用户同一时刻至多一条连接；新连接注册时替换并关闭旧连接。
// 仅存于内存，进程重启即清空；不做跨进程共享。
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewRegistry 创建连接注册表
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Conn)}
}

// Register 注册连接（替换语义）
// 同一用户已有连接时先关闭旧连接再存入新连接
func (r *Registry) Register(userID string, conn *Conn) {
	r.mu.Lock()
	prev := r.conns[userID]
	r.conns[userID] = conn
	r.mu.Unlock()

	if prev != nil && prev != conn {
		prev.CloseWithCode(websocket.CloseGoingAway, "已被新连接替换")
	}
}

// Unregister 移除连接但不关闭（调用方负责关闭，避免二次 Close）
// 仅当传入连接仍是当前注册的连接时才移除，防止误删新连接
func (r *Registry) Unregister(userID string, conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.conns[userID]; ok && cur == conn {
		delete(r.conns, userID)
	}
}

// Lookup 查询用户当前连接
func (r *Registry) Lookup(userID string) (*Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[userID]
	return conn, ok
}

// Snapshot 复制当前全部连接（广播时避免持锁写网络）
func (r *Registry) Snapshot() map[string]*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]*Conn, len(r.conns))
	for userID, conn := range r.conns {
		snapshot[userID] = conn
	}
	return snapshot
}

// Len 当前在线连接数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll 关闭并清空全部连接（进程关闭时调用）
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[string]*Conn)
	r.mu.Unlock()

	for _, conn := range conns {
		conn.CloseWithCode(websocket.CloseGoingAway, "服务关闭")
	}
}
