package service

import (
	"bytes"
	"image/color"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Canvas layout.
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 140
	dayPaddingX      = 8
	minSlotHeight    = 10.0
	slotBorderRadius = 6.0
	totalDaysInWeek  = 7
	hourPadding      = 1
	defaultMinHour   = 8
	defaultMaxHour   = 20
)

var (
	weekBgColor    = color.RGBA{245, 246, 248, 255}
	weekTextColor  = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	slotFreeColor     = color.RGBA{133, 193, 85, 220}
	slotPartialColor  = color.RGBA{255, 214, 110, 255}
	slotFullColor     = color.RGBA{255, 140, 150, 255}
	slotInactiveColor = color.RGBA{158, 158, 158, 200}
	slotTextColor     = color.RGBA{20, 24, 28, 230}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

type hourRange struct {
	start int
	total int
}

// renderWeekImage draws a Monday-Sunday grid with every slot placed at
// its wall-clock position, colored by occupancy.
func renderWeekImage(weekStart time.Time, views []*SlotView) ([]byte, error) {
	byDay := make(map[string][]*SlotView)
	for _, view := range views {
		key := view.Slot.DateKey()
		byDay[key] = append(byDay[key], view)
	}

	hours := calculateHourRange(views)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(weekBgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawWeekHeader(dc, weekStart)
	drawHourLabels(dc, hours, cellHeight)

	day := weekStart
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayColumn(dc, day, x, y, dayWidth, dayHeight, dayIndex, hours, cellHeight)
		for _, view := range byDay[day.Format("2006-01-02")] {
			drawSlotBox(dc, view, x, y, dayWidth, hours, cellHeight)
		}

		day = day.AddDate(0, 0, 1)
	}

	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// calculateHourRange fits the displayed hours to the slots present,
// with an hour of padding on each side.
func calculateHourRange(views []*SlotView) hourRange {
	minHour := 24
	maxHour := -1

	for _, view := range views {
		startH, _ := splitWallClock(view.Slot.StartTime)
		endH, endM := splitWallClock(view.Slot.EndTime)
		if endM > 0 {
			endH++
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if maxHour < 0 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	start := minHour - hourPadding
	end := maxHour + hourPadding
	if start < 0 {
		start = 0
	}
	if end > 23 {
		end = 23
	}

	return hourRange{start: start, total: end - start + 1}
}

func drawWeekHeader(dc *gg.Context, weekStart time.Time) {
	title := weekStart.Format("02 Jan") + " - " + weekStart.AddDate(0, 0, 6).Format("02 Jan 2006")
	dc.SetColor(weekTextColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(imageWidth)/2-w/2, float64(headerHeight)/4+h/2, 0, 0)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for hIdx := 0; hIdx < hours.total; hIdx++ {
		label := formatHourLabel(hours.start + hIdx)
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayColumn(dc *gg.Context, day time.Time, x, y float64, dayWidth, dayHeight, dayIndex int, hours hourRange, cellHeight float64) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	dc.SetColor(weekTextColor)
	dc.DrawStringAnchored(day.Format("Mon 02.01"), x+float64(dayWidth)/2, y-12, 0.5, 0.5)

	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawSlotBox(dc *gg.Context, view *SlotView, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startH, startM := splitWallClock(view.Slot.StartTime)
	endH, endM := splitWallClock(view.Slot.EndTime)

	slotStart := float64(startH) + float64(startM)/60.0
	slotEnd := float64(endH) + float64(endM)/60.0

	slotY := y + (slotStart-float64(hours.start))*cellHeight
	slotHeight := (slotEnd - slotStart) * cellHeight
	if slotHeight < minSlotHeight {
		slotHeight = minSlotHeight
	}
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	dc.SetColor(occupancyColor(view))
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(slotTextColor)
	label := view.Slot.StartTime + " " + strconv.Itoa(view.BookedCount) + "/" + strconv.Itoa(view.Slot.Capacity)
	dc.DrawStringAnchored(label, x+float64(dayPaddingX)+8, slotY+14, 0, 0)
}

func occupancyColor(view *SlotView) color.RGBA {
	switch {
	case !view.Slot.Active:
		return slotInactiveColor
	case view.BookedCount >= view.Slot.Capacity:
		return slotFullColor
	case view.BookedCount > 0:
		return slotPartialColor
	default:
		return slotFreeColor
	}
}

func drawLegend(dc *gg.Context, dayWidth int) {
	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Free", slotFreeColor},
		{"Partly booked", slotPartialColor},
		{"Full", slotFullColor},
		{"Inactive", slotInactiveColor},
	}

	boxW, boxH := 20.0, 14.0
	liX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	liY := float64(imageHeight) - 120.0

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, liX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// splitWallClock parses a validated "HH:MM" value.
func splitWallClock(v string) (int, int) {
	if len(v) != 5 {
		return 0, 0
	}
	h, _ := strconv.Atoi(v[:2])
	m, _ := strconv.Atoi(v[3:])
	return h, m
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}
