// Package assets provides the CSS styles and HTML templates used to build
// capture pages and text documents.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is what the exporter uses. A custom directory only needs to
// hold the files it overrides; everything else comes from the embedded set.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── capture.css     # browser capture page
//	│   ├── document.css    # standalone HTML export
//	│   └── word.css        # Word-compatible export
//	└── templates/
//	    ├── capture.html
//	    ├── document.html
//	    └── word.html
//
// # Security
//
// Asset names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
