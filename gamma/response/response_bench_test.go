package response

import (
	"testing"
)

func BenchmarkBuild(b *testing.B) {
	set := testSet()
	builder, err := NewBuilder(set, set.Axis, WithFWHM(60))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := builder.Build(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRow(b *testing.B) {
	set := testSet()
	builder, err := NewBuilder(set, set.Axis, WithFWHM(60))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := builder.Row(125); err != nil {
			b.Fatal(err)
		}
	}
}
