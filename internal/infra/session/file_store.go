package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cariaestates/backoffice/internal/entity"
)

// Chave fixa do slot de sessão dentro do arquivo, espelhando o contrato
// original de key-value durável.
const sessionKey = "caria_admin_session"

// FileStore persiste a sessão do painel em um arquivo JSON: lido uma vez
// na subida, escrito a cada troca de sessão, limpo no logout.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório da sessão: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Load() (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.readSlots()
	if err != nil {
		return nil, err
	}

	raw, ok := slots[sessionKey]
	if !ok {
		return nil, nil
	}

	var s entity.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("sessão persistida corrompida: %w", err)
	}
	return &s, nil
}

func (f *FileStore) Save(s *entity.Session) error {
	if s == nil {
		return f.Clear()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.readSlots()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	slots[sessionKey] = raw

	return f.writeSlots(slots)
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.readSlots()
	if err != nil {
		return err
	}
	delete(slots, sessionKey)

	return f.writeSlots(slots)
}

func (f *FileStore) readSlots() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	slots := map[string]json.RawMessage{}
	if len(data) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("arquivo de sessão corrompido: %w", err)
	}
	return slots, nil
}

// writeSlots grava via arquivo temporário + rename para não deixar um
// slot meio escrito em caso de queda.
func (f *FileStore) writeSlots(slots map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
