package papers

// Reading lists keyed by section id. arXiv entries download as PDFs;
// local entries are text copies of blog posts kept under PapersDir.
var sectionPapers = map[string][]Paper{
	"01_transformers": {
		{ArxivID: "1706.03762", Title: "Attention Is All You Need"},
		{ArxivID: "2005.14165", Title: "Language Models are Few-Shot Learners (GPT-3)"},
		{ArxivID: "2203.02155", Title: "Training language models to follow instructions (InstructGPT)"},
	},
	"02_intro_mech_interp": {
		{ArxivID: "2309.15046", Title: "A Mathematical Framework for Transformer Circuits"},
		{ArxivID: "2209.11895", Title: "In-context Learning and Induction Heads"},
	},
	"11_probing": {
		{ArxivID: "2502.03407", Title: "Detecting Strategic Deception Using Linear Probes"},
	},
	"12_function_vectors": {
		{ArxivID: "2310.15213", Title: "Function Vectors in Large Language Models"},
	},
	"13_saes": {
		{ArxivID: "2209.10652", Title: "Toy Models of Superposition"},
		{LocalFile: "monosemanticity_2023.txt", Title: "Towards Monosemanticity (2023)"},
		{LocalFile: "scaling_monosemanticity_2024.txt", Title: "Scaling Monosemanticity (2024)"},
	},
	"21_ioi": {
		{ArxivID: "2211.00593", Title: "Interpretability in the Wild (IOI)"},
		{ArxivID: "2304.14997", Title: "Automated Circuit DisCovery (ACDC)"},
	},
	"22_sae_circuits": {
		{LocalFile: "monosemanticity_2023.txt", Title: "Towards Monosemanticity (2023)"},
		{LocalFile: "scaling_monosemanticity_2024.txt", Title: "Scaling Monosemanticity (2024)"},
		{LocalFile: "attribution_graphs_2025.txt", Title: "Circuit Tracing with Attribution Graphs"},
		{ArxivID: "2403.19647", Title: "Sparse Feature Circuits"},
	},
	"31_brackets": {
		{ArxivID: "2209.10652", Title: "Toy Models of Superposition"},
		{ArxivID: "2312.06550", Title: "Towards Monosemanticity (arXiv version)"},
	},
	"32_grokking": {
		{LocalFile: "grokking_analysis.txt", Title: "A Mechanistic Interpretability Analysis of Grokking"},
	},
	"33_othellogpt": {
		{ArxivID: "2309.00941", Title: "Emergent Linear Representations in World Models"},
		{LocalFile: "othello_linear_representation.txt", Title: "Actually, Othello-GPT Has A Linear Emergent World Representation"},
	},
	"34_superposition": {
		{ArxivID: "2209.10652", Title: "Toy Models of Superposition"},
		{LocalFile: "monosemanticity_2023.txt", Title: "Towards Monosemanticity (2023)"},
	},
	"41_emergent_misalignment": {
		{ArxivID: "2502.17424", Title: "Emergent Misalignment"},
		{ArxivID: "2506.11618", Title: "Convergent Linear Representations of Emergent Misalignment"},
		{ArxivID: "2506.11613", Title: "Model Organisms for Emergent Misalignment"},
	},
	"42_science_misalignment": {
		{ArxivID: "2412.14093", Title: "Alignment Faking in Large Language Models"},
		{LocalFile: "shutdown_resistance_palisade.txt", Title: "Shutdown resistance in reasoning models"},
		{LocalFile: "shutdown_resistance_followup.txt", Title: "Self-preservation or Instruction Ambiguity"},
	},
	"43_reasoning_models": {
		{ArxivID: "2506.19143", Title: "Thought Anchors: Which LLM Reasoning Steps Matter?"},
	},
	"44_persona_vectors": {
		{ArxivID: "2601.10387", Title: "The Assistant Axis"},
		{ArxivID: "2507.21509", Title: "Persona Vectors"},
	},
}
