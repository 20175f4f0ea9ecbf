package watch

import (
	"fmt"
	"path/filepath"
	"sync"
)

var OriginalWatch = Watch

var (
	mocks   map[string]chan []EventInfo
	mocksmu sync.Mutex
)

// Mock replaces Watch with an in-memory version driven by Dispatch.
func Mock() {
	mocksmu.Lock()
	defer mocksmu.Unlock()

	mocks = map[string]chan []EventInfo{}
	Watch = func(path string) (<-chan []EventInfo, func(), error) {
		mocksmu.Lock()
		defer mocksmu.Unlock()

		key := filepath.Clean(path)
		mock, hasMock := mocks[key]
		if !hasMock {
			mock = make(chan []EventInfo, 1)
			mocks[key] = mock
		}
		var once sync.Once
		stop := func() {
			once.Do(func() {
				mocksmu.Lock()
				defer mocksmu.Unlock()
				delete(mocks, key)
				close(mock)
			})
		}
		return mock, stop, nil
	}
}

// Dispatch delivers a single write event for path.
func Dispatch(path string) {
	mocksmu.Lock()
	defer mocksmu.Unlock()

	mock, hasMock := mocks[filepath.Clean(path)]
	if !hasMock {
		panic(fmt.Errorf("can't dispatch on unwatched path '%s'", path))
	}
	mock <- []EventInfo{{Path: path, Event: "Write"}}
}

func Unmock() {
	mocksmu.Lock()
	defer mocksmu.Unlock()

	mocks = nil
	Watch = OriginalWatch
}
