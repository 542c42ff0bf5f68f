// Package srctl translates the comments of C-family source files.
//
// A Scanner splits the source text into literal and comment spans. The
// Translator sends the text of every comment span to a Provider and rewrites
// the file with the translation substituted in place, leaving every byte
// outside the translated spans untouched.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/srctl"
//	    "github.com/ZaguanLabs/srctl/cache"
//	    "github.com/ZaguanLabs/srctl/processor"
//	    "github.com/ZaguanLabs/srctl/provider"
//	)
//
//	func main() {
//	    dir, _ := srctl.ParseDirection("jpn-eng")
//
//	    t := srctl.NewTranslator(dir, provider.NewReversoProvider(provider.ReversoConfig{}),
//	        srctl.WithMode(srctl.ModeTranslationThenOriginal),
//	        srctl.WithCache(cache.NewInMemoryCache(3600)),
//	        srctl.WithScanner(processor.NewPatternScanner()),
//	    )
//
//	    result, err := t.ProcessSource(context.Background(), src)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Content)
//	}
package srctl
