package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rjeczalik/notify"
)

// DebounceInterval is how long the watcher waits for a burst of writes to
// settle before reporting it.
const DebounceInterval = 300 * time.Millisecond

type EventInfo struct {
	Path  string
	Event string
}

// Watch reports changes to the file at path. Events are batched per burst.
// The parent directory is watched so that editors replacing the file by
// rename are still seen. Calling stop closes the returned channel.
//
// Watch is a variable so tests can swap in Mock.
var Watch = func(path string) (<-chan []EventInfo, func(), error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}
	dir, name := filepath.Split(abs)

	c := make(chan notify.EventInfo, 16)
	if err := notify.Watch(dir, c, notify.Write|notify.Create|notify.Rename|notify.Remove); err != nil {
		return nil, nil, err
	}

	out := make(chan EventInfo)
	go func() {
		defer close(out)
		for ev := range c {
			if filepath.Base(ev.Path()) != name {
				continue
			}
			out <- EventInfo{
				Path:  ev.Path(),
				Event: strings.TrimPrefix(ev.Event().String(), "notify."),
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			notify.Stop(c)
			close(c)
		})
	}
	return debounce(DebounceInterval, out), stop, nil
}

// debounce collects events until dur has passed without a new one, then
// sends the batch. The returned channel closes after c closes.
func debounce(dur time.Duration, c <-chan EventInfo) <-chan []EventInfo {
	out := make(chan []EventInfo, 1)

	go func() {
		defer close(out)
		var (
			batch []EventInfo
			timer *time.Timer
			fire  <-chan time.Time
		)
		for {
			select {
			case ev, ok := <-c:
				if !ok {
					if timer != nil {
						timer.Stop()
					}
					return
				}
				batch = append(batch, ev)
				if timer == nil {
					timer = time.NewTimer(dur)
				} else {
					timer.Reset(dur)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				select {
				case out <- batch:
				default:
					// The previous batch has not been consumed; merge.
					select {
					case prev := <-out:
						batch = append(prev, batch...)
					default:
					}
					out <- batch
				}
				batch = nil
			}
		}
	}()

	return out
}
