// Package zerocss extracts CSS written in tagged template literals out of
// JavaScript and TypeScript sources at build time.
//
// Every css`...` template whose content is static (or interpolates only
// identifiers bound to literals and other declarations, in the same file or
// one named import away) is replaced by a generated class name. The style
// text moves into a virtual stylesheet imported by the rewritten file:
//
//	import { css } from "zero-css";
//	const button = css`color: red;`;
//
// becomes
//
//	import "virtual:zerocss/src/button.ts.1f2e3d4c.css";
//	const button = 'css-8a7b6c5d';
//
// # Build hosts
//
// Bundlers drive a Plugin through the Hooks interface:
//
//	plugin, err := zerocss.NewPlugin(zerocss.Options{Root: root}, extract.FSHost{})
//	res, err := plugin.TransformFile(ctx, code, id)
//
// # Standalone builds
//
// Build writes rewritten sources and one stylesheet per file into an output
// tree; Check reports the declarations a build would leave in place:
//
//	result, err := zerocss.Build(ctx, zerocss.BuildConfig{
//		Options: zerocss.Options{Root: "web"},
//		OutDir:  "dist",
//	})
//
// # CLI Tool
//
//	go install github.com/yacobolo/zerocss/cmd/zerocss@latest
package zerocss
