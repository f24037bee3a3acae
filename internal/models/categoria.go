package models

// Categoria representa una categoría de objetos (datos de referencia, solo lectura)
type Categoria struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	Slug        string `json:"slug"`
	Descripcion string `json:"descripcion"`
	Icono       string `json:"icono"`
	Color       string `json:"color"`
	Orden       int    `json:"orden"`
}
