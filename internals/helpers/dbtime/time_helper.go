// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"
)

const DateLayout = "2006-01-02"

var appLoc atomic.Pointer[time.Location]

// SetLocation memasang timezone aplikasi (APP_TIMEZONE). Nama tidak valid -> UTC.
func SetLocation(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		appLoc.Store(time.UTC)
		return
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[WARN] invalid APP_TIMEZONE %q, falling back to UTC: %v", name, err)
		loc = time.UTC
	}
	appLoc.Store(loc)
}

// Location: timezone aplikasi, default UTC.
func Location() *time.Location {
	if loc := appLoc.Load(); loc != nil {
		return loc
	}
	return time.UTC
}

// Day memotong t ke tengah malam hari kalendernya (di timezone aplikasi)
// dan mengembalikannya sebagai UTC midnight tanggal yang sama.
func Day(t time.Time) time.Time {
	lt := t.In(Location())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay menerima "YYYY-MM-DD" atau RFC3339 dan mengembalikan Day(...).
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Day(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC3339)", s)
}

// ParseTime menerima RFC3339 atau "YYYY-MM-DD" (dibaca sebagai 23:59:59 di timezone aplikasi).
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.ParseInLocation(DateLayout, s, Location()); err == nil {
		return d.Add(24*time.Hour - time.Second).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q (want RFC3339 or YYYY-MM-DD)", s)
}

// DayCount: jumlah hari kalender start s/d end (inklusif), 0 kalau end < start.
// Tidak mengalokasi apa pun, aman untuk range sembarang dari client.
func DayCount(start, end time.Time) int {
	start, end = utcMidnight(start), utcMidnight(end)
	if end.Before(start) {
		return 0
	}
	// Sub jenuh di ~292 tahun; pakai detik Unix.
	return int((end.Unix()-start.Unix())/86400) + 1
}

// DaysBetween mengembalikan setiap hari dari start s/d end (inklusif).
// Input diharapkan hasil ParseDay/Day (UTC midnight). Range lebih dari limit
// hari (limit > 0) menghasilkan nil tanpa membangun slice.
func DaysBetween(start, end time.Time, limit int) []time.Time {
	n := DayCount(start, end)
	if n == 0 || (limit > 0 && n > limit) {
		return nil
	}
	start = utcMidnight(start)
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.AddDate(0, 0, i))
	}
	return out
}

func FormatDay(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func utcMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
