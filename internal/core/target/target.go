package target

import (
	"sort"
	"strings"

	"waxytimer/internal/platform"
)

// DefaultTitleKeyword is the window title the timer is usually pointed at.
const DefaultTitleKeyword = "2004scape game"

// DefaultExecutables lists browser executables offered as targets.
var DefaultExecutables = []string{
	"chrome.exe",
	"msedge.exe",
	"firefox.exe",
	"brave.exe",
	"opera.exe",
	"vivaldi.exe",
}

// browserNames are matched against titles to tell a standalone client apart
// from the same page open in a browser tab.
var browserNames = []string{"chrome", "edge", "firefox", "brave", "opera", "vivaldi"}

// Filter decides which windows are offered as targets.
type Filter struct {
	TitleKeywords []string
	Executables   []string
	All           bool
}

// DefaultFilter returns the allow-list used on first launch.
func DefaultFilter() Filter {
	return Filter{
		TitleKeywords: []string{DefaultTitleKeyword},
		Executables:   append([]string(nil), DefaultExecutables...),
	}
}

// Allows reports whether a window qualifies as a target.
func (filter Filter) Allows(window platform.WindowInfo) bool {
	if filter.All {
		return true
	}
	title := strings.ToLower(window.Title)
	for _, keyword := range filter.TitleKeywords {
		if keyword != "" && strings.Contains(title, strings.ToLower(keyword)) {
			return true
		}
	}
	executable := strings.ToLower(window.Executable)
	// Linux reports the bare process name, Windows the .exe file name.
	bare := strings.TrimSuffix(executable, ".exe")
	for _, allowed := range filter.Executables {
		allowed = strings.ToLower(allowed)
		if executable != "" && (executable == allowed || bare == strings.TrimSuffix(allowed, ".exe")) {
			return true
		}
	}
	return false
}

// Apply filters windows and sorts them case-insensitively by title.
func (filter Filter) Apply(windows []platform.WindowInfo) []platform.WindowInfo {
	allowed := make([]platform.WindowInfo, 0, len(windows))
	for _, window := range windows {
		if filter.Allows(window) {
			allowed = append(allowed, window)
		}
	}
	sort.SliceStable(allowed, func(i, j int) bool {
		return strings.ToLower(allowed[i].Title) < strings.ToLower(allowed[j].Title)
	})
	return allowed
}

// SelectDefault picks the best initial target and returns its index, or -1
// for an empty list.
func (filter Filter) SelectDefault(windows []platform.WindowInfo, hint string) int {
	if len(windows) == 0 {
		return -1
	}
	for index, window := range windows {
		title := strings.ToLower(window.Title)
		if filter.matchesKeyword(title) && !mentionsBrowser(title) {
			return index
		}
	}
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint != "" {
		for index, window := range windows {
			if strings.Contains(strings.ToLower(window.Title), hint) {
				return index
			}
		}
	}
	for index, window := range windows {
		if filter.matchesKeyword(strings.ToLower(window.Title)) {
			return index
		}
	}
	return 0
}

// HintFor returns the preferred-window hint remembered for a selected title.
func (filter Filter) HintFor(title string) string {
	lower := strings.ToLower(strings.TrimSpace(title))
	if !mentionsBrowser(lower) {
		for _, keyword := range filter.TitleKeywords {
			keyword = strings.ToLower(keyword)
			if keyword != "" && strings.Contains(lower, keyword) {
				return keyword
			}
		}
	}
	return lower
}

// IndexOf returns the position of a window id in the list, or -1.
func IndexOf(windows []platform.WindowInfo, id platform.WindowID) int {
	if id == 0 {
		return -1
	}
	for index, window := range windows {
		if window.ID == id {
			return index
		}
	}
	return -1
}

// Preserve keeps the current target across a refresh when it still exists,
// falling back to SelectDefault.
func (filter Filter) Preserve(windows []platform.WindowInfo, current platform.WindowID, hint string) int {
	if index := IndexOf(windows, current); index >= 0 {
		return index
	}
	return filter.SelectDefault(windows, hint)
}

func (filter Filter) matchesKeyword(lowerTitle string) bool {
	for _, keyword := range filter.TitleKeywords {
		if keyword != "" && strings.Contains(lowerTitle, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func mentionsBrowser(lowerTitle string) bool {
	for _, name := range browserNames {
		if strings.Contains(lowerTitle, name) {
			return true
		}
	}
	return false
}
