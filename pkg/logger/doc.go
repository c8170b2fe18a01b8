// Package logger builds *slog.Logger instances with environment presets,
// consistent attribute helpers, and attributes pulled from context.Context
// (request IDs, environment) on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "booking-api"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "booking email sent", logger.MessageID(id), logger.Provider("smtp"))
//
// Development uses the text handler at debug level; staging and production
// use the JSON handler at info level.
package logger
