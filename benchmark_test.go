package opckit

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func BenchmarkOpen(b *testing.B) {
	sizes := map[string]int{
		"small": 10,
		"large": 1000,
	}

	for name, n := range sizes {
		b.Run(name, func(b *testing.B) {
			var overrides []string
			entries := make([]zipEntry, 0, n+1)
			for i := 0; i < n; i++ {
				part := fmt.Sprintf("/obj/part%d.xml", i)
				overrides = append(overrides, overrideDecl(part,
					fmt.Sprintf("application/x-resqml+xml;version=2.0;type=obj_%d", i)))
				entries = append(entries, zipEntry{part[1:], strings.Repeat("<a/>", 16)})
			}
			manifest := manifestXML(append([]string{defaultDecl("xml", "application/xml")}, overrides...)...)
			data := createPackageZip(b, append([]zipEntry{{ManifestName, manifest}}, entries...)...)

			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				pkg, err := Open(bytes.NewReader(data), int64(len(data)))
				if err != nil {
					b.Fatal(err)
				}
				pkg.Close()
			}
		})
	}
}
