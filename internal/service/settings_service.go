package service

import (
	"fmt"
	"os"
	"sync"

	"ta-chatbot-be/internal/config"
)

// ISettingsService owns the assistant settings that the admin surface may
// change at runtime (temperature, docs path). Everything else in
// AssistantConfig is fixed at startup.
type ISettingsService interface {
	Assistant() config.AssistantConfig
	UpdateTemperature(t float64) error
	UpdateDocsPath(path string) error
}

type settingsService struct {
	mu        sync.RWMutex
	assistant config.AssistantConfig
}

func NewSettingsService(assistant config.AssistantConfig) ISettingsService {
	return &settingsService{assistant: assistant}
}

func (s *settingsService) Assistant() config.AssistantConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assistant
}

func (s *settingsService) UpdateTemperature(t float64) error {
	if t < 0 || t > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assistant.Temperature = t
	return nil
}

// UpdateDocsPath points the assistant at a different document directory,
// creating it when missing. The index is rebuilt lazily on the next freshness
// check.
func (s *settingsService) UpdateDocsPath(path string) error {
	if path == "" {
		return fmt.Errorf("docs path must not be empty")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assistant.DocsPath = path
	return nil
}
