package moderation

import (
	"context"
	"fmt"
	"sync"

	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
)

// Exemptions tracks the channels where links are allowed.
type Exemptions struct {
	backend storage.Backend
	mu      sync.RWMutex
	data    map[string]models.AntiLinkSettings
}

func NewExemptions(backend storage.Backend) *Exemptions {
	return &Exemptions{backend: backend, data: make(map[string]models.AntiLinkSettings)}
}

func (e *Exemptions) Load(ctx context.Context) error {
	doc := make(map[string]models.AntiLinkSettings)
	if _, err := e.backend.Load(ctx, storage.KeyAntiLink, &doc); err != nil {
		return fmt.Errorf("load antilink: %w", err)
	}
	e.mu.Lock()
	e.data = doc
	e.mu.Unlock()
	return nil
}

func (e *Exemptions) IsExempt(guildID, channelID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, id := range e.data[guildID].ExemptChannels {
		if id == channelID {
			return true
		}
	}
	return false
}

// Exempt reports false when the channel was already exempt.
func (e *Exemptions) Exempt(ctx context.Context, guildID, channelID string) (bool, error) {
	if e.IsExempt(guildID, channelID) {
		return false, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.data[guildID]
	s.ExemptChannels = append(s.ExemptChannels, channelID)
	e.data[guildID] = s
	return true, e.saveLocked(ctx)
}

// Unexempt reports false when the channel was not exempt.
func (e *Exemptions) Unexempt(ctx context.Context, guildID, channelID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.data[guildID]
	for i, id := range s.ExemptChannels {
		if id == channelID {
			s.ExemptChannels = append(s.ExemptChannels[:i:i], s.ExemptChannels[i+1:]...)
			e.data[guildID] = s
			return true, e.saveLocked(ctx)
		}
	}
	return false, nil
}

func (e *Exemptions) saveLocked(ctx context.Context) error {
	if err := e.backend.Save(ctx, storage.KeyAntiLink, e.data); err != nil {
		return fmt.Errorf("save antilink: %w", err)
	}
	return nil
}
