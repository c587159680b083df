// Package tmdb provides a client for The Movie Database (TMDB) v3 API.
//
// The client wraps the handful of read-only endpoints moodreel needs and
// reshapes each response into a small projection the CLI can render directly:
//
//   - Genre catalog (name -> id)
//   - Discovery by genre, release-year range and sort key (top 10)
//   - Similar movies (top 5)
//   - Movie details with credits and videos (director, cast, runtime, trailer)
//   - Flat-rate watch providers for a single region
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(
//		os.Getenv("TMDB_API_KEY"),
//		logger,
//		tmdb.WithLanguage("ko"),
//		tmdb.WithRegion("KR"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	movies, err := client.DiscoverMovies(ctx, tmdb.DiscoverQuery{
//		GenreID:   28,
//		StartYear: 2020,
//		EndYear:   2025,
//		SortBy:    tmdb.SortByRating,
//	})
//
// # Error Handling
//
// Every operation returns a typed failure instead of assuming success:
//
//   - *TransportError: the request never produced a response
//   - *APIError: TMDB answered with a non-200 status
//   - *DecodeError: the body did not match the expected shape
//
// Semantic misses are not errors. A movie without a credited director gets
// Unknown, a movie without a trailer gets an empty TrailerURL and a movie
// without providers in the configured region gets an empty slice.
package tmdb
