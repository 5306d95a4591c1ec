package render

// Skeleton holds the static sections of the output document. The same
// skeleton drives both output syntaxes; only the substitution points differ.
type Skeleton struct {
	Persona        string
	PriorityMatrix string
	Methodology    string
	Epilogue       string
}

// DefaultSkeleton returns the built-in template skeleton. The text is
// identical across all runs.
func DefaultSkeleton() Skeleton {
	return Skeleton{
		Persona: `You are an expert software engineer tasked with addressing code review
feedback on a pull request. Work through the findings below in priority
order, making the smallest correct change for each one. Do not refactor
beyond what a finding asks for, and do not address findings marked as
resolved or excluded; they are intentionally absent from this document.`,

		PriorityMatrix: `critical - Security vulnerabilities, authentication bypasses, data
           exposure risks. Address immediately, before any other finding.
high     - Functional bugs, crashes, data loss, incorrect behavior.
           Address after critical findings.
medium   - Code quality, maintainability, performance, missing tests.
           Address when critical and high findings are done.
low      - Style, naming, formatting, documentation. Address last, or
           batch into a single cleanup commit.`,

		Methodology: `1. Read every finding before changing any code.
2. Work in priority order: critical, then high, then medium, then low.
3. For findings with a proposed diff, apply the diff if it is still valid
   against the current code; otherwise implement the equivalent change.
4. For findings with explicit agent instructions, follow the instructions
   exactly; they take precedence over the general rationale.
5. After each change, run the project's build and test commands.
6. Findings marked "location unknown" describe the PR as a whole; decide
   the affected files from the rationale.`,

		Epilogue: `Verify the full build and test suite pass after all findings are
addressed. Reply to each review thread describing the change made, or
explaining why no change was needed. Do not mark a thread resolved
without a reply.`,
	}
}
