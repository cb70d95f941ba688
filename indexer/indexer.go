// Package indexer maintains secondary indexes over committed state so
// callers can query IPs by owner without scanning the full record store.
package indexer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/tolelom/tolchain/core"
	"github.com/tolelom/tolchain/events"
	"github.com/tolelom/tolchain/storage"
)

const prefixOwnerIPs = "idx:owner:ip:"

// Indexer subscribes to engine events and updates secondary lookup tables.
type Indexer struct {
	db      storage.DB
	emitter *events.Emitter
}

// New creates an Indexer backed by db and subscribes to relevant events.
func New(db storage.DB, emitter *events.Emitter) *Indexer {
	idx := &Indexer{db: db, emitter: emitter}
	emitter.Subscribe(events.EventIPCreated, idx.onIPCreated)
	emitter.Subscribe(events.EventIPDeleted, idx.onIPDeleted)
	return idx
}

// GetIPsByOwner returns all IP ids owned by the given principal.
func (idx *Indexer) GetIPsByOwner(owner string) ([]string, error) {
	return idx.getList(prefixOwnerIPs + owner)
}

// ---- event handlers ----

func (idx *Indexer) onIPCreated(ev events.Event) {
	owner, _ := ev.Data["owner"].(string)
	ipid, _ := ev.Data["ipid"].(string)
	if owner == "" || ipid == "" {
		return
	}
	if err := idx.addToList(prefixOwnerIPs+owner, ipid); err != nil {
		log.Printf("[indexer] create index write failed (owner=%s ipid=%s): %v", owner, ipid, err)
	}
}

func (idx *Indexer) onIPDeleted(ev events.Event) {
	owner, _ := ev.Data["owner"].(string)
	ipid, _ := ev.Data["ipid"].(string)
	if owner == "" || ipid == "" {
		return
	}
	if err := idx.removeFromList(prefixOwnerIPs+owner, ipid); err != nil {
		log.Printf("[indexer] delete index write failed (owner=%s ipid=%s): %v", owner, ipid, err)
	}
}

// ---- list helpers ----

func (idx *Indexer) getList(key string) ([]string, error) {
	data, err := idx.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil // empty list
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("indexer unmarshal: %w", err)
	}
	return ids, nil
}

func (idx *Indexer) addToList(key, value string) error {
	ids, err := idx.getList(key)
	if err != nil {
		return fmt.Errorf("read list: %w", err)
	}
	for _, id := range ids {
		if id == value {
			return nil // already present
		}
	}
	ids = append(ids, value)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return idx.db.Set([]byte(key), data)
}

func (idx *Indexer) removeFromList(key, value string) error {
	ids, err := idx.getList(key)
	if err != nil {
		return fmt.Errorf("read list: %w", err)
	}
	if ids == nil {
		return nil
	}
	filtered := ids[:0]
	for _, id := range ids {
		if id != value {
			filtered = append(filtered, id)
		}
	}
	data, err := json.Marshal(filtered)
	if err != nil {
		return err
	}
	return idx.db.Set([]byte(key), data)
}
