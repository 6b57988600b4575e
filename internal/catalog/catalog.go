// Package catalog holds the clinic's static service/product catalog, the
// periodically fetched appointments feed, and the system prompt assembled
// from both.
package catalog

// Listing is the canned catalog reply for get_products_and_services. It
// requires no validation and no external dispatch.
func Listing() string {
	return listingText
}

const listingText = `Catálogo de servicios destacados:
1. Toxina Botulínica (Botox)
   • ID de servicio: BOTX001
   • Precio: $1.200.000 COP (USD 300)
   • Descripción: Reducción de arrugas faciales (frente, patas de gallo, entrecejo).
   • Disponibilidad: En stock | Sesión de 30 minutos.

2. Relleno de Ácido Hialurónico
   • ID de servicio: HALU002
   • Precio: $1.800.000 COP (USD 450) por jeringa
   • Descripción: Volumen en labios, mejillas o contorno facial.
   • Disponibilidad: En stock | Resultados inmediatos.

3. Depilación Láser
   • ID de servicio: DLZR003
   • Precio: $400.000 COP (USD 100) por sesión (zona pequeña)
   • Descripción: Tecnología LightSheer para eliminación permanente del vello.
   • Disponibilidad: Reserva previa | 6 sesiones recomendadas.

4. Piel Radiante (Peeling Químico + Hidratación)
   • ID de servicio: PIEL004
   • Precio: $350.000 COP (USD 85)
   • Descripción: Tratamiento para manchas, poros y textura irregular.
   • Disponibilidad: En stock | Duración: 45 minutos.

Catálogo de productos:
1. Crema Antienvejecimiento BellaVida
   • ID de producto: CREMA-ANTIENVE-001
   • Precio: $150.000 COP (USD 35)
   • Disponibilidad: En stock | Envío internacional disponible.

Puedes usar los ID de servicio o producto cuando quieras agendar o comprar.`
