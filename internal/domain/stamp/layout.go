// Package stamp computes the concentric ring geometry of circular stamps.
package stamp

import (
	"fmt"
	"image/color"
	"strings"

	"esign-composer/internal/domain/entity"
)

// BorderWeight is the line weight of every ring border.
const BorderWeight = 0.5

// ReductionFactor returns the divisor applied to a ring's font size and
// thickness when the stamp is rendered at imageHeight pixels instead of the
// ringHeight it was authored at.
//
// Ratios strictly between 1 and 2 clamp to 2. Otherwise the truncated integer
// ratio is used, with 0 raised to 1 so fonts are never upscaled.
func ReductionFactor(ringHeight, imageHeight int) int {
	ratio := float64(ringHeight) / float64(imageHeight)
	if ratio > 1 && ratio < 2 {
		return 2
	}
	if ringHeight/imageHeight == 0 {
		return 1
	}
	return ringHeight / imageHeight
}

// Layout converts rings ordered outermost first into stamp lines for a stamp
// rendered imageHeight pixels tall. Every ring but the last becomes an outer
// ring line; the last becomes the center disk.
func Layout(rings []entity.StampRing, imageHeight int) (*entity.StampLayout, error) {
	if len(rings) == 0 {
		return nil, fmt.Errorf("stamp has no rings")
	}
	if imageHeight <= 0 {
		return nil, fmt.Errorf("invalid stamp image height %d", imageHeight)
	}

	colors, err := parseRingColors(rings)
	if err != nil {
		return nil, err
	}

	last := len(rings) - 1
	layout := &entity.StampLayout{
		OuterLines:      make([]entity.StampLine, 0, len(rings)),
		BackgroundColor: colors[last].background,
		BackgroundCrop:  entity.StampBackgroundCropOuterArea,
	}

	for n, ring := range rings {
		text := strings.Repeat(ring.Text, max(ring.TextRepeat, 0))
		reduction := ReductionFactor(ring.Height, imageHeight)

		if n == last {
			layout.InnerLines = append(layout.InnerLines, entity.StampLine{
				Text:      text,
				FontSize:  ring.FontSize / reduction,
				TextColor: colors[n].text,
			})
			if len(rings) == 1 {
				line := baseLine(colors[n])
				line.InnerBorder.Color = colors[n].background
				line.Height = 1
				layout.OuterLines = append(layout.OuterLines, line)
			}
			continue
		}

		height := (ring.Radius - rings[n+1].Radius) / reduction
		line := baseLine(colors[n])
		line.InnerBorder.Color = colors[n+1].stroke
		line.Height = height
		line.Text = text
		line.FontSize = ring.FontSize / reduction
		line.TextColor = colors[n].text
		line.TextBottomIntent = height / 2
		line.TextRepeatType = entity.TextRepeatWithTruncation
		layout.OuterLines = append(layout.OuterLines, line)
	}

	return layout, nil
}

type ringColorSet struct {
	text       color.RGBA
	stroke     color.RGBA
	background color.RGBA
}

// baseLine is a ring line with the ring's own background and stroke.
func baseLine(c ringColorSet) entity.StampLine {
	return entity.StampLine{
		BackgroundColor: c.background,
		OuterBorder:     entity.Border{Color: c.stroke, Weight: BorderWeight},
		InnerBorder:     entity.Border{Weight: BorderWeight},
	}
}

func parseRingColors(rings []entity.StampRing) ([]ringColorSet, error) {
	out := make([]ringColorSet, len(rings))
	for i, ring := range rings {
		var err error
		if out[i].text, err = entity.ParseColor(ring.TextColor); err != nil {
			return nil, fmt.Errorf("ring %d text color: %w", i, err)
		}
		if out[i].stroke, err = entity.ParseColor(ring.StrokeColor); err != nil {
			return nil, fmt.Errorf("ring %d stroke color: %w", i, err)
		}
		if out[i].background, err = entity.ParseColor(ring.BackgroundColor); err != nil {
			return nil, fmt.Errorf("ring %d background color: %w", i, err)
		}
	}
	return out, nil
}
