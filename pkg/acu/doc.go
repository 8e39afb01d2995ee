// Package acu turns log lines into structured records using grok
// expressions, and follows growing log files.
//
// This package allows you to:
//   - Parse lines with one or more grok expressions ([GrokParser], [ParserChain])
//   - Parse whole files or streams ([ParseFile], [ParseReader])
//   - Follow a file, or the newest file in a directory, in real time ([Watch])
//
// # Basic Usage
//
//	engine := grok.MustNew()
//	p, err := acu.NewGrokParser(engine, `%{COMBINEDAPACHELOG}`, acu.WithName("access"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for rec, err := range acu.ParseFile(ctx, "access.log", acu.WithParseParser(p)) {
//	    if err != nil {
//	        log.Print(err)
//	        continue
//	    }
//	    fmt.Println(rec.Fields["clientip"], rec.Fields["response"])
//	}
//
// # Following Files
//
// [Watch] tails a single file with [WithFile], or the newest file matching
// [WithGlob] in the directory given by [WithLogDir] (or ACU_LOG_DIR). In
// directory mode the watcher switches to a newer file when one appears.
//
//	records, errs, err := acu.Watch(ctx,
//	    acu.WithLogDir("/var/log/myapp"),
//	    acu.WithParser(p),
//	    acu.WithReplayLastN(100),
//	)
//
// # Custom Parsers
//
// Any type implementing [Parser] can be used in place of [GrokParser]:
//
//	type Parser interface {
//	    ParseLine(ctx context.Context, line string) (ParseResult, error)
//	}
//
// [ParserFunc] adapts a plain function.
package acu
