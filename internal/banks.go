package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/khoh/go-quizrunner/internal/common"
	"go.uber.org/zap"
)

// Banks is the registry of question banks. Definitions live in an
// in-memory map and are mirrored to redis when a persistence engine is
// configured; play state is never stored here.
type Banks struct {
	all    map[int]common.QuizBank
	mutex  sync.RWMutex
	engine *PersistenceEngine
	log    *zap.SugaredLogger
}

func InitBanks(engine *PersistenceEngine, log *zap.SugaredLogger) (*Banks, error) {
	banks := &Banks{
		all:    make(map[int]common.QuizBank),
		engine: engine,
		log:    log,
	}

	if engine == nil {
		log.Info("initializing question banks with no persistence engine")
		return banks, nil
	}

	keys, err := engine.GetKeys("bank")
	if err != nil {
		return nil, fmt.Errorf("could not retrieve bank keys from redis: %w", err)
	}

	for _, key := range keys {
		data, err := engine.Get(key)
		if err != nil {
			log.Warn(err.Error())
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		var bank common.QuizBank
		if err := dec.Decode(&bank); err != nil {
			log.Warnf("error parsing JSON from redis for key %s: %v", key, err)
			continue
		}
		banks.all[bank.Id] = bank
	}

	log.Infof("ingested %d question banks", len(banks.all))
	return banks, nil
}

// LoadFile bulk-imports bank definitions from a JSON file. Banks that
// fail validation are skipped, not fatal.
func (b *Banks) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open bank file %s: %w", path, err)
	}
	defer f.Close()

	banks, err := common.UnmarshalBanks(f)
	if err != nil {
		return fmt.Errorf("error parsing bank file %s: %w", path, err)
	}

	ingested := 0
	for _, bank := range banks {
		if _, err := b.Add(bank); err != nil {
			b.log.Warnf("skipping bank %q from %s: %v", bank.Name, path, err)
			continue
		}
		ingested++
	}
	b.log.Infof("ingested %d question banks from %s", ingested, path)
	return nil
}

func (b *Banks) GetBanks() []common.QuizBank {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	ids := make([]int, len(b.all))

	i := 0
	for k := range b.all {
		ids[i] = k
		i++
	}
	sort.Ints(ids)

	r := make([]common.QuizBank, len(ids))
	for i, id := range ids {
		r[i] = b.all[id]
	}
	return r
}

func (b *Banks) Get(id int) (common.QuizBank, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	bank, ok := b.all[id]
	if !ok {
		return common.QuizBank{}, fmt.Errorf("could not find question bank with id %d", id)
	}
	return bank, nil
}

func (b *Banks) Delete(id int) {
	b.mutex.Lock()
	delete(b.all, id)
	b.mutex.Unlock()

	b.engine.Delete(fmt.Sprintf("bank:%d", id))
}

// Add assigns the bank a fresh id and stores it. The bank must pass
// validation.
func (b *Banks) Add(bank common.QuizBank) (common.QuizBank, error) {
	if err := bank.Validate(); err != nil {
		return common.QuizBank{}, err
	}

	var err error
	bank.Id, err = b.nextID()
	if err != nil {
		return common.QuizBank{}, err
	}

	if err := b.persist(bank); err != nil {
		return common.QuizBank{}, err
	}

	b.mutex.Lock()
	b.all[bank.Id] = bank
	b.mutex.Unlock()
	return bank, nil
}

// Update replaces the bank with the same id.
func (b *Banks) Update(bank common.QuizBank) error {
	if err := bank.Validate(); err != nil {
		return err
	}

	b.mutex.Lock()
	b.all[bank.Id] = bank
	b.mutex.Unlock()

	return b.persist(bank)
}

func (b *Banks) persist(bank common.QuizBank) error {
	if b.engine == nil {
		return nil
	}
	encoded, err := bank.Marshal()
	if err != nil {
		return fmt.Errorf("error converting bank to JSON: %w", err)
	}
	if err := b.engine.Set(fmt.Sprintf("bank:%d", bank.Id), encoded); err != nil {
		return fmt.Errorf("error persisting bank to redis: %w", err)
	}
	return nil
}

func (b *Banks) nextID() (int, error) {
	if b.engine == nil {
		b.mutex.RLock()
		defer b.mutex.RUnlock()
		highest := 0
		for key := range b.all {
			if key > highest {
				highest = key
			}
		}
		return highest + 1, nil
	}
	id, err := b.engine.Incr("bankid")
	if err != nil {
		return 0, fmt.Errorf("error generating bank ID from persistent store: %w", err)
	}
	return id, nil
}
