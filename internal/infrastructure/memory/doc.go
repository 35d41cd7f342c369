// Package memory implementa los puertos de repositorio sobre mapas en memoria.
// Respalda las pruebas de los casos de uso y sirve como entorno de prototipo
// sin Postgres. El TxRunner serializa transacciones con un mutex y revierte
// por snapshot, reproduciendo la semántica todo-o-nada de la implementación
// real.
package memory
