// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import "testing"

func TestCleanContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"figure environment removed",
			"before \\begin{figure}\\includegraphics{x}\\caption{cap}\\end{figure} after",
			"before after",
		},
		{
			"table environment removed",
			"before \\begin{table}rows\\end{table} after",
			"before after",
		},
		{
			"starred equation removed",
			"before \\begin{equation*}x = y\\end{equation*} after",
			"before after",
		},
		{
			"align removed",
			"a \\begin{align}x &= y\\\\ z &= w\\end{align} b",
			"a b",
		},
		{
			"citations refs labels stripped",
			"We follow \\cite{smith2020} in Section \\ref{sec:x}\\label{sec:y} closely",
			"We follow in Section closely",
		},
		{
			"formatting unwrapped",
			"\\textbf{bold} and \\textit{italic} and \\emph{emphasized}",
			"bold and italic and emphasized",
		},
		{
			"unknown commands stripped",
			"text \\foobar{arg} and \\baz rest",
			"text and rest",
		},
		{
			"whitespace collapsed",
			"one\n\n\n\ntwo   three\t four",
			"one two three four",
		},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanContent(tt.in); got != tt.want {
				t.Errorf("CleanContent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Introduction", "Introduction"},
		{"formatting unwrapped", "\\textbf{Related Work}", "Related Work"},
		{"nested formatting unwrapped", "\\textbf{\\emph{Results}}", "Results"},
		{"bare command dropped", "Methods \\protect", "Methods"},
		{"whitespace collapsed", "  Our   Approach ", "Our Approach"},
		{"trailing punctuation stripped", "Conclusion.", "Conclusion"},
		{"trailing colon stripped", "Setup:", "Setup"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTitle(tt.in); got != tt.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
