//go:build !windows

package termui

import (
	"os"
	"os/signal"
	"syscall"
)

// startSignalProcessor maps SIGINT/SIGTERM to Interrupt/Quit and SIGWINCH to a
// resize check; SIGWINCH only exists on unix, which is why Windows gets a
// poll-based watcher in signals_windows.go instead.
func (t *TUI) startSignalProcessor() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGWINCH)
	if !t.registerStopCloser(func() {
		signal.Stop(ch)
		close(ch)
	}) {
		signal.Stop(ch)
		close(ch)
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-t.ctx.Done():
				return
			case sig, ok := <-ch:
				if !ok {
					return
				}
				switch sig {
				case syscall.SIGINT:
					t.Interrupt()
				case syscall.SIGTERM:
					t.Quit()
				case syscall.SIGWINCH:
					t.triggerResizeEvent()
				}
			}
		}
	}()
}

func (t *TUI) startResizeWatcher() {}
