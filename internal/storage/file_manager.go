package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/storage/interfaces"
)

type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

// SaveToFile writes doc atomically: temp file, fsync, rename.
func (f *FileManager) SaveToFile(fileName string, doc *models.Document) error {
	start := time.Now()
	err := f.save(fileName, doc)
	f.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		f.metrics.IncPersistenceFailures()
	}
	return err
}

func (f *FileManager) save(fileName string, doc *models.Document) error {
	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// LoadFromFile reads the document and upgrades older layouts in memory.
// A missing file yields an empty document and exists=false. migrated reports
// that the caller should write the upgraded document back.
func (f *FileManager) LoadFromFile(fileName string) (doc *models.Document, exists bool, migrated bool, err error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewDocument(), false, false, nil
		}
		return nil, false, false, err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, true, false, err
	}

	doc, migrated, err = decodeDocument(decompressed)
	if err != nil {
		return nil, true, false, fmt.Errorf("corrupt document %s: %w", fileName, err)
	}
	if migrated {
		f.logger.Warnf(providers.TypeStore, "Document %s used an older layout, migrated", fileName)
	}
	return doc, true, migrated, nil
}

type rawDocument struct {
	Subscriptions map[string]json.RawMessage `json:"subscriptions"`
	LiveStatus    map[string]bool            `json:"liveStatus"`
}

func decodeDocument(data []byte) (*models.Document, bool, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.NewDocument(), true, nil
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, err
	}

	migrated := false
	doc := models.NewDocument()
	if raw.Subscriptions == nil {
		migrated = true
	}
	if raw.LiveStatus == nil {
		migrated = true
	} else {
		doc.LiveStatus = raw.LiveStatus
	}

	for chatID, value := range raw.Subscriptions {
		subs, changed, err := decodeChat(value)
		if err != nil {
			return nil, false, fmt.Errorf("chat %s: %w", chatID, err)
		}
		migrated = migrated || changed
		doc.Subscriptions[chatID] = subs
	}
	return doc, migrated, nil
}

// decodeChat accepts the per-platform object and the single-platform array
// written before Bilibili and Twitch support existed.
func decodeChat(value json.RawMessage) (models.ChatSubscriptions, bool, error) {
	trimmed := bytes.TrimSpace(value)
	subs := models.NewChatSubscriptions()
	changed := false

	switch {
	case bytes.HasPrefix(trimmed, []byte("[")):
		ids, err := decodeChannelList(trimmed)
		if err != nil {
			return nil, false, err
		}
		subs[models.PlatformDouyu] = ids
		return subs, true, nil
	case bytes.Equal(trimmed, []byte("null")):
		return subs, true, nil
	}

	var byPlatform map[models.Platform]json.RawMessage
	if err := json.Unmarshal(trimmed, &byPlatform); err != nil {
		return nil, false, err
	}
	for _, p := range models.AllPlatforms {
		if _, ok := byPlatform[p]; !ok {
			changed = true
		}
	}
	for p, list := range byPlatform {
		ids, err := decodeChannelList(list)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", p, err)
		}
		subs[p] = ids
	}
	return subs, changed, nil
}

// decodeChannelList reads ids stored as strings or bare numbers.
func decodeChannelList(data json.RawMessage) ([]string, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return []string{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			ids = append(ids, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(item, &n); err != nil {
			return nil, fmt.Errorf("channel id %s is neither string nor number", item)
		}
		if i, err := n.Int64(); err == nil {
			ids = append(ids, strconv.FormatInt(i, 10))
		} else {
			ids = append(ids, n.String())
		}
	}
	return ids, nil
}
