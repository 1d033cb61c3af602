package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# kennel configuration (TOML)\n")

	top, sections, order := groupOptions(GetConfigOptions())
	for _, o := range top {
		b.WriteString(strings.Join(optionLines(o), "\n") + "\n")
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			b.WriteString(strings.Join(optionLines(o), "\n") + "\n")
		}
	}
	return b.String()
}

// groupOptions splits dotted keys into TOML sections, keeping declaration order.
func groupOptions(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	top := make([]ConfigOption, 0, len(opts))
	sections := make(map[string][]ConfigOption)
	order := make([]string, 0)
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, seen := sections[section]; !seen {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

// UpdateTOML merges defaults into an existing TOML string and comments out
// unknown keys. Missing keys land inside their own table so the result stays
// valid TOML.
func UpdateTOML(existing string) (string, bool) {
	lines := strings.Split(existing, "\n")
	opts := GetConfigOptions()

	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	existingKeys := make(map[string]bool)
	sectionEnd := make(map[string]int)
	firstSection := -1
	currentSection := ""
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			if firstSection < 0 {
				firstSection = len(out)
			}
			currentSection = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			sectionEnd[currentSection] = len(out)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		fullKey := key
		if currentSection != "" {
			fullKey = currentSection + "." + key
		}
		existingKeys[fullKey] = true
		if !known[fullKey] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema")
			out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
		} else {
			out = append(out, line)
		}
		if currentSection != "" {
			sectionEnd[currentSection] = len(out)
		}
	}

	missing := make([]ConfigOption, 0)
	for _, o := range opts {
		if !existingKeys[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	type insertion struct {
		at    int
		lines []string
	}
	var inserts []insertion
	top, sections, order := groupOptions(missing)
	if len(top) > 0 {
		at := len(out)
		if firstSection >= 0 {
			at = firstSection
		}
		block := []string{"# Added by config update"}
		for _, o := range top {
			block = append(block, optionLines(o)...)
		}
		inserts = append(inserts, insertion{at: at, lines: block})
	}
	var tail []string
	for _, section := range order {
		block := []string{}
		for _, o := range sections[section] {
			block = append(block, optionLines(o)...)
		}
		if at, ok := sectionEnd[section]; ok {
			inserts = append(inserts, insertion{at: at, lines: append([]string{"# Added by config update"}, block...)})
			continue
		}
		tail = append(tail, "["+section+"]")
		tail = append(tail, block...)
	}

	slices.SortStableFunc(inserts, func(a, b insertion) int { return b.at - a.at })
	for _, ins := range inserts {
		out = slices.Insert(out, ins.at, ins.lines...)
	}
	if len(tail) > 0 {
		out = append(out, "", "# Added by config update")
		out = append(out, tail...)
	}
	return strings.Join(out, "\n"), true
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") {
		return "", false
	}
	if strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

// optionLines renders one option as comment, assignment and a blank line.
func optionLines(o ConfigOption) []string {
	out := make([]string, 0, 3)
	if o.Comment != "" {
		out = append(out, "# "+o.Comment)
	}
	return append(out, o.Key+" = "+tomlValue(o.Default), "")
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
