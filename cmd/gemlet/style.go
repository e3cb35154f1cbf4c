/*
Copyright 2026 Dima Krasner

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dimkr/gemlet/gmi"
)

var (
	heading1Style     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	heading2Style     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	heading3Style     = lipgloss.NewStyle().Bold(true)
	quoteStyle        = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	linkStyle         = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("6"))
	preformattedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	plainStyle        = lipgloss.NewStyle()
	barStyle          = lipgloss.NewStyle().Reverse(true)
	errorStyle        = barStyle.Foreground(lipgloss.Color("1"))
)

func lineStyle(attr gmi.Attr) lipgloss.Style {
	var s lipgloss.Style

	switch {
	case attr&gmi.Heading1 != 0:
		s = heading1Style
	case attr&gmi.Heading2 != 0:
		s = heading2Style
	case attr&gmi.Heading3 != 0:
		s = heading3Style
	case attr&gmi.Quote != 0:
		s = quoteStyle
	case attr&gmi.Link != 0:
		s = linkStyle
	case attr&gmi.Preformatted != 0:
		s = preformattedStyle
	default:
		s = plainStyle
	}

	if attr&gmi.Selected != 0 {
		s = s.Reverse(true)
	}

	return s
}
