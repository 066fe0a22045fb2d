package wal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

// 自己定義常用的權限常量
const (
	// rw-r--r-- (擁有者讀寫，其他人唯讀) - 適用於大多數檔案
	FileModeReadOnly fs.FileMode = 0644

	// rw------- (只有擁有者可讀寫) - 適用於私鑰、機密檔
	FileModePrivate fs.FileMode = 0600
)

// WAL Write-Ahead Log，每行一筆 JSON
type WAL struct {
	file    *os.File
	mu      sync.Mutex
	noSync  bool
	entries int
}

// Option WAL 設定選項
type Option func(*WAL)

// WithoutSync 每次寫入後不 fsync (測試或可接受遺失時使用)
func WithoutSync() Option {
	return func(w *WAL) {
		w.noSync = true
	}
}

// Open 開啟或建立一個 WAL 檔案
// O_RDWR讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func Open(path string, opts ...Option) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileModePrivate)
	if err != nil {
		return nil, fmt.Errorf("open wal %s: %w", path, err)
	}
	w := &WAL{file: file}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Append 寫入一筆資料，預設寫入後 fsync
func (w *WAL) Append(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := json.NewEncoder(w.file).Encode(v); err != nil {
		return fmt.Errorf("wal append: %w", err)
	}
	w.entries++
	if w.noSync {
		return nil
	}
	return w.file.Sync()
}

// Sync 強制刷入硬碟
func (w *WAL) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

// Close 關閉檔案
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.file.Sync(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return w.file.Close()
}

// Entries 本次開啟後寫入與重放的筆數
func (w *WAL) Entries() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries
}

// Replay 從頭讀取所有資料
// callback 逐筆接收 json.RawMessage，避免一次將所有資料載入記憶體
func (w *WAL) Replay(callback func(raw json.RawMessage) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// 確保從頭讀取
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(w.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			// 最後一筆寫到一半 (crash) 視為結尾
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("wal replay: %w", err)
		}
		w.entries++
		if err := callback(raw); err != nil {
			return err
		}
	}
}
