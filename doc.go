// Package ytexport exports the video list of a YouTube channel or playlist
// to a JSON file.
//
// # Overview
//
// A run resolves the input to a channel (and playlist), fetches the
// channel's banner and avatar, pages through every video and writes one
// document named after the channel:
//
//	path, err := ytexport.Export(ctx, apiKey, "@veritasium", "./out")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("wrote", path)
//
// Accepted input:
//
//   - channel ID: UCHnyfMqiRRG1u-2MsSQLbXA
//   - playlist ID: anything starting with PL
//   - handle: @veritasium
//   - URLs: /channel/<id>, /user/<name>, /c/<name>, /@<handle>,
//     /playlist?list=<id> on youtube.com, youtu.be or a subdomain
//
// # Configuration
//
// Settings are loaded by the config package in this order, later sources
// winning:
//
//  1. Default values
//  2. Config file (ytexport.json or ~/.config/ytexport/ytexport.json)
//  3. Environment variables (YTEXPORT_API_KEY, YTEXPORT_OUTPUT_DIR,
//     YTEXPORT_TIMEOUT, YTEXPORT_REQUESTS_PER_SECOND, YTEXPORT_MAX_RETRIES,
//     YTEXPORT_INITIAL_BACKOFF, YTEXPORT_MAX_BACKOFF, YTEXPORT_LOG_LEVEL,
//     YTEXPORT_SHOW_PROGRESS)
//  4. Command line flags
//
// API calls are not retried unless max_retries is positive.
//
// # Error Handling
//
// Input that cannot be resolved yields a *LookupError whose message is fit
// for display. Everything else (network, quota, filesystem) is a plain
// wrapped error:
//
//	var lookupErr *ytexport.LookupError
//	if errors.As(err, &lookupErr) {
//		fmt.Println(lookupErr.Message)
//	}
//	if errors.Is(err, ytexport.ErrChannelNotFound) {
//		fmt.Println("Channel not found")
//	}
//
// # Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube: input parsing, resolution, branding and video collection
//   - http: API key injection and request pacing
//   - storage: document layout and atomic writes
//   - config: configuration management
package ytexport
