package prompt

// Category names one of the fixed question categories.
type Category string

const (
	CategoryApplication     Category = "aplicacion"
	CategoryCompatibility   Category = "compatibilidad"
	CategoryResults         Category = "resultados"
	CategoryIngredients     Category = "ingredientes"
	CategoryDifferentiation Category = "diferenciacion"
	CategoryCombinations    Category = "combinaciones"
	CategoryStorage         Category = "conservacion"
	CategoryPrecautions     Category = "precauciones"
)

// Categories lists every category in a stable order.
var Categories = []Category{
	CategoryApplication,
	CategoryCompatibility,
	CategoryResults,
	CategoryIngredients,
	CategoryDifferentiation,
	CategoryCombinations,
	CategoryStorage,
	CategoryPrecautions,
}

// questionBank maps each category to question templates. "{producto}" is
// replaced with the product title; the templates only illustrate tone,
// the model is told not to copy them.
var questionBank = map[Category][]string{
	CategoryApplication: {
		"¿Cuál es la técnica correcta para aplicar {producto}?",
		"¿Cómo maximizo la efectividad de {producto}?",
		"¿Qué cantidad de {producto} debo usar en cada aplicación?",
		"¿Existe algún truco profesional para aplicar {producto}?",
		"¿En qué orden debo incluir {producto} en mi rutina?",
		"¿Necesito alguna preparación especial antes de usar {producto}?",
	},
	CategoryCompatibility: {
		"¿Puedo usar {producto} si tengo tendencia al acné?",
		"¿Es {producto} seguro durante el embarazo o lactancia?",
		"Mi piel es {tipo}, ¿me beneficiará {producto}?",
		"¿Hay alguna contraindicación para usar {producto}?",
		"¿Desde qué edad es recomendable usar {producto}?",
		"¿Funciona {producto} en climas húmedos/secos?",
	},
	CategoryResults: {
		"¿En cuántos días notaré cambios visibles con {producto}?",
		"¿Los beneficios de {producto} son acumulativos?",
		"¿Qué puedo esperar después de un mes usando {producto}?",
		"¿Hay un período de adaptación al usar {producto}?",
		"Si dejo de usar {producto}, ¿se revierten los resultados?",
		"¿Cómo sé si {producto} está funcionando correctamente?",
	},
	CategoryIngredients: {
		"¿Qué principios activos hacen efectivo a {producto}?",
		"¿Contiene {producto} ingredientes de origen natural?",
		"¿Es {producto} libre de parabenos y sulfatos?",
		"¿La fórmula de {producto} es vegana?",
		"¿Qué concentración de activos tiene {producto}?",
		"¿Los ingredientes de {producto} son fotosensibles?",
	},
	CategoryDifferentiation: {
		"¿Por qué {producto} justifica su precio premium?",
		"¿Qué tecnología exclusiva usa {producto}?",
		"¿En qué se diferencia {producto} de alternativas más económicas?",
		"¿Qué hace único a {producto} en el mercado?",
		"¿Por qué los dermatólogos recomiendan {producto}?",
		"¿Qué premios o certificaciones tiene {producto}?",
	},
	CategoryCombinations: {
		"¿Puedo mezclar {producto} con retinol/vitamina C?",
		"¿{producto} potencia el efecto de otros tratamientos?",
		"¿Debo esperar entre aplicar {producto} y maquillaje?",
		"¿Hay productos que no debo usar junto con {producto}?",
		"¿Cómo integro {producto} si ya uso ácidos?",
		"¿{producto} interfiere con tratamientos médicos?",
	},
	CategoryStorage: {
		"¿Cómo sé si {producto} se ha oxidado o deteriorado?",
		"¿Necesita {producto} refrigeración?",
		"¿Cuánto dura {producto} después de abierto?",
		"¿El color/textura de {producto} puede cambiar?",
		"¿Afecta la luz solar a {producto}?",
		"¿Puedo llevar {producto} en el avión?",
	},
	CategoryPrecautions: {
		"¿Es normal sentir hormigueo al usar {producto}?",
		"¿Debo usar SPF adicional con {producto}?",
		"¿Puede {producto} manchar la ropa o almohada?",
		"¿Qué hago si {producto} me irrita?",
		"¿{producto} puede causar purging inicial?",
		"¿Hay zonas donde no debo aplicar {producto}?",
	},
}

// Templates returns the question templates for a category.
func Templates(c Category) []string {
	return questionBank[c]
}
