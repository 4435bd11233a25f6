// Package domain holds the records mirrored from the invoice backend and the
// derived-value arithmetic for invoice totals. The backend owns these shapes;
// nothing here is persisted locally.
package domain
