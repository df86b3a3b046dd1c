// Package classification wraps the language model that labels leads on six
// fixed dimensions and writes Start/Stop/Spice-Up recommendations.
//
// The model is reached through the Generator interface; GeminiGenerator is
// the production implementation. Service builds prompts, strips markdown
// fences from answers, coerces labels onto the allowed sets and joins every
// classification back to its source meeting by case-insensitive email.
package classification
