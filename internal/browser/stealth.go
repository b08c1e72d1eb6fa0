package browser

import (
	"context"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay waits for a random duration between min and max, or until ctx
// is done.
func RandomDelay(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// HumanScroll scrolls the page in uneven half-screen steps so lazily loaded
// result cards get rendered.
func HumanScroll(ctx context.Context, page playwright.Page, steps int) error {
	for i := 0; i < steps; i++ {
		if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight / 2)"); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 500*time.Millisecond, 1500*time.Millisecond); err != nil {
			return err
		}
	}
	// scroll back up a bit
	_, err := page.Evaluate("window.scrollBy(0, -200)")
	return err
}

// MouseJiggle moves the mouse to a few random spots inside the viewport.
func MouseJiggle(ctx context.Context, page playwright.Page) error {
	viewport := page.ViewportSize()
	if viewport == nil || viewport.Width <= 0 || viewport.Height <= 0 {
		return nil
	}
	for i := 0; i < 3; i++ {
		x := rand.Intn(viewport.Width)
		y := rand.Intn(viewport.Height)
		if err := page.Mouse().Move(float64(x), float64(y)); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 100*time.Millisecond, 300*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}
