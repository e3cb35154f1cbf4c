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
	"context"
	"fmt"
	"io"
)

// dump prints a rendered page followed by its links.
func dump(ctx context.Context, b *browser, url string, width int, w io.Writer) error {
	r := b.open(ctx, url, width, true)
	if r.Err != nil {
		return r.Err
	}

	if r.Doc == nil {
		fmt.Fprintln(w, r.Status)
		return nil
	}

	for _, line := range r.Doc.Lines {
		fmt.Fprintln(w, line.Text)
	}

	if len(r.Doc.Links) > 0 {
		fmt.Fprintln(w)
		for i, link := range r.Doc.Links {
			fmt.Fprintf(w, "[%d] %s\n", i+1, link)
		}
	}

	return nil
}
