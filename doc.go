// Package mdserve serves Markdown documents as styled HTML pages.
//
// # Overview
//
// The package has two halves. The first is a small HTTP framework: handlers return errors instead of writing
// error responses themselves, and they write into a buffered [ResponseWriter] so that a failure halfway through
// a page never reaches the client as a truncated document. The second half is the content pipeline built on
// top of it.
//
// A minimal server:
//
//	cfg := mdserve.DefaultConfig()
//	cfg.Extensions = mdserve.Extensions(mdserve.ExtTables, mdserve.ExtFencedCode)
//
//	mux := mdserve.NewServeMux()
//	mux.Mount("/docs", mdserve.NewPipeline(cfg, mdserve.PipelineDeps{
//	    FS:       mdserve.DirFS("/srv/docs"),
//	    Renderer: render.New(),
//	}))
//
//	http.ListenAndServe(":8080", mux)
//
// # Pipeline
//
// For every request the [Pipeline]:
//
//  1. declines requests that do not match the configured suffixes, passing them to the next handler;
//  2. answers HEAD requests with an empty 200 and methods other than GET and POST with a 405;
//  3. resolves the Markdown source (see below) into a [Buffer];
//  4. returns the source verbatim as text/plain when raw output is enabled and requested;
//  5. writes the header of the style template;
//  6. renders the table of contents when the TOC render flag is set;
//  7. renders the body;
//  8. writes the footer of the style template.
//
// An empty document skips rendering but is still wrapped in the template.
//
// # Sources
//
// The [Resolver] takes the first of these that is present: the "markdown" form field of a POST, the document
// behind the "url" parameter, the requested file (or the directory index for directory requests). When that
// produced no bytes the configured default page is read. Missing files map to 404, permission problems to 403,
// anything else to 500.
//
// # Templates
//
// A style template is any HTML file with a line containing an opening body tag. The [Splicer] writes every line
// up to and including that one before the document, and the rest after it. Occurrences of "$title" in the
// header are replaced with the document title. Without a usable template a minimal HTML shell is written.
//
// # Errors
//
// Create errors with specific HTTP status codes using [NewError]:
//
//	return mdserve.NewError(mdserve.CodeNotFound, errors.New("no such document"))
//
// When a handler returns an error the buffered response is reset and replaced by the status text of the
// error's [Code]. Errors without a code are logged and become a 500.
//
// # Middleware
//
// Middleware wraps [BareHandler] values and is registered with [ServeMux.Use] before any handler:
//
//	mux.Use(func(next mdserve.BareHandler) mdserve.BareHandler {
//	    return mdserve.BareHandlerFunc(func(w mdserve.ResponseWriter, r *http.Request) error {
//	        start := time.Now()
//	        err := next.ServeBareBHTTP(w, r)
//	        log.Printf("%s %s took %v", r.Method, r.URL.Path, time.Since(start))
//	        return err
//	    })
//	})
package mdserve
