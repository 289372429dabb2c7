// Package content generates schema-shaped storefront copy (weather
// summaries, product picks, notification text) by wrapping prompt templates
// around a Completer. Every generator degrades to a hardcoded fallback
// literal on any failure, so callers always get a usable object.
package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// WeatherSummary describes expected conditions at a route stop.
type WeatherSummary struct {
	Stop      string `json:"stop"`
	Summary   string `json:"summary"`
	Advisory  string `json:"advisory"`
	TempLowC  int    `json:"tempLowC"`
	TempHighC int    `json:"tempHighC"`
}

// Picks is a short list of product suggestions with a pitch line.
type Picks struct {
	Headline string   `json:"headline"`
	Products []string `json:"products"`
}

// Notification is promotional copy for a push message.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Generator wraps a Completer with prompt templates and fallbacks.
type Generator struct {
	completer Completer
	lg        *zap.Logger
}

// NewGenerator creates a Generator. Pass Disabled{} to always serve
// fallbacks.
func NewGenerator(completer Completer, lg *zap.Logger) *Generator {
	return &Generator{completer: completer, lg: lg}
}

// Weather returns a summary for the named stop, or the fallback literal when
// generation fails.
func (g *Generator) Weather(ctx context.Context, stop string) WeatherSummary {
	fallback := WeatherSummary{
		Stop:      stop,
		Summary:   "Mostly clear with a light breeze.",
		Advisory:  "Good conditions for an outdoor market day.",
		TempLowC:  18,
		TempHighC: 27,
	}

	prompt := fmt.Sprintf(
		`Write a short market-day weather outlook for the stop %q. JSON keys: stop, summary, advisory, tempLowC, tempHighC.`,
		stop,
	)

	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.logFallback("weather", err)
		return fallback
	}

	out := fallback
	if err := decodeObject(raw, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "summary":
			out.Summary, err = d.Str()
		case "advisory":
			out.Advisory, err = d.Str()
		case "tempLowC":
			out.TempLowC, err = d.Int()
		case "tempHighC":
			out.TempHighC, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		g.logFallback("weather", err)
		return fallback
	}
	out.Stop = stop
	return out
}

// Recommendations returns product picks based on the given catalog names, or
// the fallback literal when generation fails.
func (g *Generator) Recommendations(ctx context.Context, productNames []string) Picks {
	fallback := Picks{
		Headline: "Popular on this route",
		Products: productNames,
	}
	if len(fallback.Products) > 3 {
		fallback.Products = fallback.Products[:3]
	}

	prompt := fmt.Sprintf(
		`Pick up to 3 products to feature from this list and write a one-line headline: %s. JSON keys: headline, products (array of names from the list).`,
		strings.Join(productNames, ", "),
	)

	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.logFallback("recommendations", err)
		return fallback
	}

	out := Picks{}
	if err := decodeObject(raw, func(d *jx.Decoder, key string) error {
		switch key {
		case "headline":
			s, err := d.Str()
			out.Headline = s
			return err
		case "products":
			return d.Arr(func(d *jx.Decoder) error {
				s, err := d.Str()
				if err != nil {
					return err
				}
				out.Products = append(out.Products, s)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil || out.Headline == "" || len(out.Products) == 0 {
		g.logFallback("recommendations", err)
		return fallback
	}
	return out
}

// Promo returns notification copy for a subject line, or the fallback
// literal when generation fails.
func (g *Generator) Promo(ctx context.Context, subject string) Notification {
	fallback := Notification{
		Title: "Fresh stock has arrived!",
		Body:  "The caravan is rolling in with new products. Tap to browse today's catalog.",
	}

	prompt := fmt.Sprintf(
		`Write a short push notification about: %s. JSON keys: title, body. Keep the title under 60 characters.`,
		subject,
	)

	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.logFallback("promo", err)
		return fallback
	}

	out := Notification{}
	if err := decodeObject(raw, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "title":
			out.Title, err = d.Str()
		case "body":
			out.Body, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil || out.Title == "" || out.Body == "" {
		g.logFallback("promo", err)
		return fallback
	}
	return out
}

func (g *Generator) logFallback(kind string, err error) {
	g.lg.Info("serving fallback content", zap.String("kind", kind), zap.Error(err))
}

// decodeObject extracts the first JSON object from raw model output (models
// often wrap it in prose or code fences) and decodes its keys via fn.
func decodeObject(raw string, fn func(d *jx.Decoder, key string) error) error {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in output")
	}

	d := jx.DecodeStr(raw[start : end+1])
	return d.Obj(func(d *jx.Decoder, key string) error {
		return fn(d, key)
	})
}
