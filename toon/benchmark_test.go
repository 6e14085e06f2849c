package toon

import (
	"strings"
	"testing"
)

var benchmarkDoc = strings.Join([]string{
	"users[2]{id,name,email,active}:",
	"  1,Alice,alice@example.com,true",
	"  2,Bob,bob@example.com,false",
	"config:",
	"  debug: true",
	"  timeout: 30",
	"  servers[3]: server1,server2,server3",
	"metrics[3]{cpu,memory}:",
	"  45.2,78.1",
	"  52.8,82.3",
	"  38.9,71.5",
}, "\n")

func BenchmarkDecode(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Decode(benchmarkDoc)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSplitRow(b *testing.B) {
	row := `1,"Alice, Smith",alice@example.com,true,0.75`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = splitRow(row)
	}
}
