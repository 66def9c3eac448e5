package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Push keys follow the realtime-database scheme: an 8 character timestamp
// prefix followed by 12 characters of entropy, over an alphabet whose byte
// order matches its chronological order. Keys generated in one process are
// strictly increasing, so sorting a collection's keys reproduces insertion
// order. The engine's waypoint ordering relies on this.
const pushAlphabet = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

type pushKeyGen struct {
	mu       sync.Mutex
	lastMs   int64
	lastRand [12]byte
}

func (g *pushKeyGen) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()
	if now != g.lastMs {
		g.lastMs = now
		id := uuid.New()
		for i := range g.lastRand {
			g.lastRand[i] = id[i%len(id)] % 64
		}
	} else {
		// Same millisecond: increment the previous entropy so the new key
		// still sorts after it.
		for i := len(g.lastRand) - 1; i >= 0; i-- {
			g.lastRand[i]++
			if g.lastRand[i] < 64 {
				break
			}
			g.lastRand[i] = 0
		}
	}

	var key [20]byte
	ms := now
	for i := 7; i >= 0; i-- {
		key[i] = pushAlphabet[ms%64]
		ms /= 64
	}
	for i, r := range g.lastRand {
		key[8+i] = pushAlphabet[r]
	}
	return string(key[:])
}
