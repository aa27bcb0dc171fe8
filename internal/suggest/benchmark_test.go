package suggest

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func benchmarkResponses() []string {
	goals := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		goals = append(goals, fmt.Sprintf("%q", fmt.Sprintf("Research %d companies hiring biology professionals", i+1)))
	}
	array := "[" + strings.Join(goals, ", ") + "]"
	return []string{
		array,
		"Here are some goals for you:\n```json\n" + array + "\n```\nLet me know if you need more.",
		"I could not come up with anything useful today.",
	}
}

// BenchmarkParseSuggestions measures the two-tier parse on typical responses.
func BenchmarkParseSuggestions(b *testing.B) {
	b.ReportAllocs()
	responses := benchmarkResponses()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseSuggestions(responses[i%len(responses)])
	}
}

// BenchmarkParseSuggestionsConcurrent parses from a pool of workers, the way
// concurrent refresh requests would.
func BenchmarkParseSuggestionsConcurrent(b *testing.B) {
	b.ReportAllocs()
	responses := benchmarkResponses()

	inputs := make(chan string, b.N)
	numWorkers := 50
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range inputs {
				ParseSuggestions(in)
			}
		}()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		inputs <- responses[i%len(responses)]
	}
	close(inputs)
	wg.Wait()
}
