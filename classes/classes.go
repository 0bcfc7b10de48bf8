// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package classes sorts lists of utility classes, as used in the class
// attributes of Tailwind-styled views.
package classes

import (
	"cmp"
	"slices"
	"strings"
)

// category is a group of related utilities. Classes are ordered by the
// category they belong to.
type category int

const (
	unknown category = iota
	layout
	position
	flexGrid
	spacing
	sizing
	typography
	backgrounds
	borders
	effects
	filters
	tables
	transitions
	transforms
	interactivity
	svg
	accessibility
)

// exact maps utilities that take no value to their category.
var exact = map[string]category{
	"container": layout, "block": layout, "inline-block": layout, "inline": layout,
	"flex": layout, "inline-flex": layout, "grid": layout, "inline-grid": layout,
	"table": layout, "contents": layout, "flow-root": layout, "hidden": layout,
	"visible": layout, "invisible": layout, "collapse": layout, "isolate": layout,
	"isolation-auto": layout, "box-border": layout, "box-content": layout,

	"static": position, "fixed": position, "absolute": position, "relative": position,
	"sticky": position,

	"grow": flexGrid, "shrink": flexGrid, "flex-row": flexGrid, "flex-col": flexGrid,
	"flex-wrap": flexGrid, "flex-nowrap": flexGrid,

	"italic": typography, "not-italic": typography, "uppercase": typography,
	"lowercase": typography, "capitalize": typography, "normal-case": typography,
	"underline": typography, "overline": typography, "line-through": typography,
	"no-underline": typography, "truncate": typography, "antialiased": typography,
	"subpixel-antialiased": typography,

	"border": borders, "rounded": borders, "ring": borders, "outline": borders,
	"outline-none": borders, "divide-x": borders, "divide-y": borders,

	"shadow": effects, "blur": filters, "grayscale": filters, "invert": filters,
	"sepia": filters, "drop-shadow": filters,

	"transition": transitions, "transform": transforms,

	"sr-only": accessibility, "not-sr-only": accessibility,
}

// prefixes maps utility prefixes to their category. Longer prefixes are
// listed before the shorter prefixes they extend.
var prefixes = []struct {
	prefix string
	cat    category
}{
	{"columns-", layout}, {"break-after-", layout}, {"break-before-", layout},
	{"break-inside-", layout}, {"box-decoration-", layout}, {"float-", layout},
	{"clear-", layout}, {"object-", layout}, {"overflow-", layout},
	{"overscroll-", layout}, {"aspect-", layout}, {"display-", layout},

	{"inset-", position}, {"top-", position}, {"right-", position},
	{"bottom-", position}, {"left-", position}, {"start-", position},
	{"end-", position}, {"z-", position},

	{"basis-", flexGrid}, {"flex-", flexGrid}, {"grow-", flexGrid},
	{"shrink-", flexGrid}, {"order-", flexGrid}, {"grid-", flexGrid},
	{"col-", flexGrid}, {"row-", flexGrid}, {"auto-cols-", flexGrid},
	{"auto-rows-", flexGrid}, {"gap-", flexGrid}, {"justify-", flexGrid},
	{"content-", flexGrid}, {"items-", flexGrid}, {"self-", flexGrid},
	{"place-", flexGrid},

	{"space-", spacing}, {"px-", spacing}, {"py-", spacing}, {"pt-", spacing},
	{"pr-", spacing}, {"pb-", spacing}, {"pl-", spacing}, {"ps-", spacing},
	{"pe-", spacing}, {"p-", spacing}, {"mx-", spacing}, {"my-", spacing},
	{"mt-", spacing}, {"mr-", spacing}, {"mb-", spacing}, {"ml-", spacing},
	{"ms-", spacing}, {"me-", spacing}, {"m-", spacing},

	{"min-w-", sizing}, {"max-w-", sizing}, {"min-h-", sizing},
	{"max-h-", sizing}, {"size-", sizing}, {"w-", sizing}, {"h-", sizing},

	{"font-", typography}, {"text-", typography}, {"tracking-", typography},
	{"leading-", typography}, {"list-", typography}, {"decoration-", typography},
	{"underline-offset-", typography}, {"indent-", typography},
	{"align-", typography}, {"whitespace-", typography}, {"break-", typography},
	{"line-clamp-", typography},

	{"bg-blend-", effects}, {"bg-", backgrounds}, {"from-", backgrounds},
	{"via-", backgrounds}, {"to-", backgrounds},

	{"border-collapse", tables}, {"border-separate", tables},
	{"border-spacing-", tables}, {"table-", tables}, {"caption-", tables},

	{"rounded-", borders}, {"border-", borders}, {"divide-", borders},
	{"outline-", borders}, {"ring-", borders},

	{"shadow-", effects}, {"opacity-", effects}, {"mix-blend-", effects},

	{"blur-", filters}, {"brightness-", filters}, {"contrast-", filters},
	{"drop-shadow-", filters}, {"hue-rotate-", filters}, {"saturate-", filters},
	{"backdrop-", filters},

	{"transition-", transitions}, {"duration-", transitions}, {"ease-", transitions},
	{"delay-", transitions}, {"animate-", transitions},

	{"scale-", transforms}, {"rotate-", transforms}, {"translate-", transforms},
	{"skew-", transforms}, {"origin-", transforms},

	{"accent-", interactivity}, {"appearance-", interactivity},
	{"cursor-", interactivity}, {"caret-", interactivity},
	{"pointer-events-", interactivity}, {"resize", interactivity},
	{"scroll-", interactivity}, {"snap-", interactivity}, {"touch-", interactivity},
	{"select-", interactivity}, {"will-change-", interactivity},

	{"fill-", svg}, {"stroke-", svg},

	{"forced-color-adjust-", accessibility},
}

// variants lists the known variant prefixes in order: responsive
// breakpoints first, then states.
var variants = []string{
	"sm", "md", "lg", "xl", "2xl",
	"dark", "motion-safe", "motion-reduce", "print", "portrait", "landscape",
	"first", "last", "only", "odd", "even", "empty",
	"group-hover", "group-focus", "peer-hover", "peer-focus", "peer-checked",
	"hover", "focus", "focus-within", "focus-visible", "active", "visited",
	"target", "checked", "required", "invalid", "placeholder-shown",
	"disabled", "read-only", "before", "after", "placeholder", "file",
	"marker", "selection", "first-line", "first-letter",
}

// class is a parsed class name.
type class struct {
	text     string
	cat      category
	variants []int
}

// Sort orders a whitespace-separated list of classes.
//
// Classes that are not recognized keep their relative order and come first.
// Recognized classes follow, grouped by category; classes with variants,
// such as md:flex or hover:bg-red-500, come after the classes without
// them, responsive variants before state variants. Duplicates are kept.
func Sort(list string) string {
	fields := strings.Fields(list)
	parsed := make([]class, len(fields))
	for i, field := range fields {
		parsed[i] = parse(field)
	}

	slices.SortStableFunc(parsed, func(a, b class) int {
		if a.cat == unknown || b.cat == unknown {
			return cmp.Compare(boolInt(a.cat != unknown), boolInt(b.cat != unknown))
		}
		if c := slices.Compare(a.variants, b.variants); c != 0 {
			return c
		}
		return cmp.Compare(a.cat, b.cat)
	})

	out := make([]string, len(parsed))
	for i, c := range parsed {
		out[i] = c.text
	}
	return strings.Join(out, " ")
}

func parse(text string) class {
	c := class{text: text}

	parts := splitVariants(text)
	base := parts[len(parts)-1]
	for _, v := range parts[:len(parts)-1] {
		rank := slices.Index(variants, v)
		if rank < 0 {
			if !strings.HasPrefix(v, "[") {
				return c
			}
			rank = len(variants)
		}
		c.variants = append(c.variants, rank)
	}

	base = strings.TrimPrefix(base, "!")
	base = strings.TrimPrefix(base, "-")
	c.cat = categorize(base)
	return c
}

// splitVariants splits a class on the colons that are not inside an
// arbitrary value.
func splitVariants(text string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range text {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ':':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}

func categorize(base string) category {
	if cat, ok := exact[base]; ok {
		return cat
	}
	for _, p := range prefixes {
		if strings.HasPrefix(base, p.prefix) {
			return p.cat
		}
	}
	return unknown
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
