// Package client adalah pustaka sisi-penerima untuk alur notifikasi:
// subscribe ke channel websocket, fetch daftar notifikasi, dan menjaga
// state read/unread lokal tetap konsisten dengan server.
//
// Store dibuat eksplisit dan di-inject (bukan state global) supaya bisa
// diuji tanpa UI. Record store di server tetap jadi sumber kebenaran;
// state lokal hanya cermin yang bisa tertinggal sampai Fetch berikutnya.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Notification adalah entri lokal hasil normalisasi dari kedua jalur
// (fetch awal maupun event broadcast).
type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ActionURL string     `json:"action_url,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Alert adalah notifikasi transien (toast) yang ditampilkan saat event masuk.
type Alert struct {
	Title     string
	Message   string
	Type      string
	ActionURL string
}

type Config struct {
	BaseURL    string // mis. http://localhost:8080
	WSURL      string // mis. ws://localhost:8080/ws
	Token      string
	HTTPClient *http.Client
	Logger     *logrus.Logger
	OnAlert    func(Alert)
}

type Store struct {
	cfg  Config
	http *http.Client
	log  *logrus.Logger

	mu      sync.Mutex
	entries []Notification
}

func NewStore(cfg Config) *Store {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		cfg:  cfg,
		http: httpClient,
		log:  logger,
	}
}

// Notifications mengembalikan salinan state lokal, terbaru dulu.
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.entries))
	copy(out, s.entries)
	return out
}

// UnreadCount diturunkan dari state, tidak disimpan terpisah.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.entries {
		if n.ReadAt == nil {
			count++
		}
	}
	return count
}

// Fetch mengambil daftar notifikasi dari server dan mengganti state lokal.
// Tidak ada jaminan urutan terhadap event broadcast yang datang bersamaan;
// entri dari broadcast yang tiba sebelum Fetch selesai bisa tertimpa atau
// terduplikasi (celah yang diketahui, tidak di-dedup).
func (s *Store) Fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/notifications", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)

	resp, err := s.http.Do(req)
	if err != nil {
		s.log.Errorf("client: fetch notifications failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("fetch notifications: unexpected status %d", resp.StatusCode)
		s.log.Error(err)
		return err
	}

	var envelope struct {
		Status bool           `json:"status"`
		Data   []Notification `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		s.log.Errorf("client: decode notifications failed: %v", err)
		return err
	}

	s.mu.Lock()
	s.entries = envelope.Data
	s.mu.Unlock()
	return nil
}

// Subscribe membuka koneksi websocket dan memproses kedua nama event.
// Mengembalikan fungsi unsubscribe; WAJIB dipanggil saat teardown supaya
// handler tidak menumpuk antar re-subscribe (kebenaran, bukan optimasi).
func (s *Store) Subscribe(ctx context.Context) (func(), error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.cfg.WSURL+"?token="+s.cfg.Token, nil)
	if err != nil {
		return nil, err
	}

	go s.readLoop(conn)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			conn.Close()
		})
	}
	return unsubscribe, nil
}

func (s *Store) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		entry, ok := normalize(raw)
		if !ok {
			continue
		}

		// Selalu prepend sebagai entri baru, tanpa merge/dedup
		s.mu.Lock()
		s.entries = append([]Notification{entry}, s.entries...)
		s.mu.Unlock()

		if s.cfg.OnAlert != nil {
			s.cfg.OnAlert(Alert{
				Title:     entry.Title,
				Message:   entry.Message,
				Type:      entry.Type,
				ActionURL: entry.ActionURL,
			})
		}
	}
}

// MarkRead menandai satu notifikasi sudah dibaca di server, lalu
// menyamakan state lokal. Kalau request gagal state lokal tidak diubah;
// error dicatat, tidak ada retry, dan tidak pernah panic untuk id asing.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	if err := s.post(ctx, fmt.Sprintf("/notifications/%s/read", id)); err != nil {
		s.log.Errorf("client: mark read %s failed: %v", id, err)
		return err
	}

	now := time.Now()
	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].ID == id && s.entries[i].ReadAt == nil {
			s.entries[i].ReadAt = &now
		}
	}
	s.mu.Unlock()
	return nil
}

// MarkAllRead -> satu request bulk; on success semua entri lokal ditandai.
func (s *Store) MarkAllRead(ctx context.Context) error {
	if err := s.post(ctx, "/notifications/mark-all-read"); err != nil {
		s.log.Errorf("client: mark all read failed: %v", err)
		return err
	}

	now := time.Now()
	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].ReadAt == nil {
			s.entries[i].ReadAt = &now
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
