// Package home содержит обработчик корневого маршрута.
package home

import (
	"net/http"

	"github.com/go-chi/render"
)

// Greeting текст, который отдаёт корневой маршрут.
const Greeting = "Hello, Flask on Vercel!"

// ServeHTTP отвечает фиксированным приветствием.
// @Summary Приветствие
// @Tags System
// @Produce  plain
// @Success 200 {string} string "Hello, Flask on Vercel!"
// @Router / [get]
func ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, Greeting)
}
