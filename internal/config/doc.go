// Package config loads the server configuration.
//
// Values come from three layers, later layers winning:
//
//  1. Default()
//  2. a YAML file named by LEADSCOPE_CONFIG, or config.yaml / configs/config.yaml
//  3. environment variables prefixed with LEADSCOPE_ (LEADSCOPE_SERVER_PORT,
//     LEADSCOPE_AI_MODEL, LEADSCOPE_CACHE_RECOMMENDATION_TTL, ...)
//
// A .env file is read into the environment before the layers are applied.
// A few conventional unprefixed names are honoured as fallbacks: PORT,
// FRONTEND_URL, GEMINI_API_KEY, GOOGLE_APPLICATION_CREDENTIALS,
// SPREADSHEET_ID and SHEET_NAME.
package config
