package course

// Chapter registry for the ARENA curriculum. Section numbers for
// non-group sections are derived from the [x.y] marker in the path.

var chapterOrder = []string{
	"chapter0_fundamentals",
	"chapter1_transformer_interp",
	"chapter2_rl",
	"chapter3_llm_evals",
}

var chapters = map[string]Chapter{
	"chapter0_fundamentals": {
		Title:       "Chapter 0: Fundamentals",
		ShortTitle:  "Fundamentals",
		Description: "Build your foundation in deep learning, from prerequisites through CNNs, optimization, backpropagation, and generative models.",
		Color:       "#4F46E5",
		Icon:        "foundation",
		Sections: []Section{
			{
				ID:         "00_prereqs",
				Title:      "Prerequisites",
				Path:       "chapter0_fundamentals/instructions/pages/00_[0.0]_Prerequisites.md",
				PythonPath: "chapter0_fundamentals/exercises/part0_prereqs/solutions.py",
			},
			{
				ID:         "01_ray_tracing",
				Title:      "Ray Tracing",
				Path:       "chapter0_fundamentals/instructions/pages/01_[0.1]_Ray_Tracing.md",
				PythonPath: "chapter0_fundamentals/exercises/part1_ray_tracing/solutions.py",
			},
			{
				ID:         "02_cnns",
				Title:      "CNNs & ResNets",
				Path:       "chapter0_fundamentals/instructions/pages/02_[0.2]_CNNs_&_ResNets.md",
				PythonPath: "chapter0_fundamentals/exercises/part2_cnns/solutions.py",
			},
			{
				ID:         "03_optimization",
				Title:      "Optimization",
				Path:       "chapter0_fundamentals/instructions/pages/03_[0.3]_Optimization.md",
				PythonPath: "chapter0_fundamentals/exercises/part3_optimization/solutions.py",
			},
			{
				ID:         "04_backprop",
				Title:      "Backpropagation",
				Path:       "chapter0_fundamentals/instructions/pages/04_[0.4]_Backprop.md",
				PythonPath: "chapter0_fundamentals/exercises/part4_backprop/solutions.py",
			},
			{
				ID:         "05_vaes_gans",
				Title:      "VAEs & GANs",
				Path:       "chapter0_fundamentals/instructions/pages/05_[0.5]_VAEs_&_GANs.md",
				PythonPath: "chapter0_fundamentals/exercises/part5_vaes_and_gans/solutions.py",
			},
		},
	},
	"chapter1_transformer_interp": {
		Title:       "Chapter 1: Transformer Interpretability",
		ShortTitle:  "Interpretability",
		Description: "Dive deep into language model interpretability, from linear probes and SAEs to alignment faking and thought anchors.",
		Color:       "#059669",
		Icon:        "microscope",
		Sections: []Section{
			{
				ID:         "01_transformers",
				Title:      "Transformers from Scratch",
				Path:       "chapter1_transformer_interp/instructions/pages/01_[1.1]_Transformer_from_Scratch.md",
				PythonPath: "chapter1_transformer_interp/exercises/part1_transformer_from_scratch/solutions.py",
			},
			{
				ID:         "02_intro_mech_interp",
				Title:      "Intro to Mech Interp",
				Path:       "chapter1_transformer_interp/instructions/pages/02_[1.2]_Intro_to_Mech_Interp.md",
				PythonPath: "chapter1_transformer_interp/exercises/part2_intro_to_mech_interp/solutions.py",
			},
			{
				ID:        "1_3_overview",
				Title:     "Probing and Representations",
				LocalPath: "1_3_probing_and_representations.md",
				Number:    "1.3",
				IsGroup:   true,
				Children:  []string{"11_probing", "12_function_vectors", "13_saes"},
			},
			{
				ID:         "11_probing",
				Title:      "Probing for Deception",
				Path:       "chapter1_transformer_interp/instructions/pages/11_[1.3.1]_Probing_for_Deception.md",
				PythonPath: "chapter1_transformer_interp/exercises/part31_probing_for_deception/solutions.py",
				Parent:     "1_3_overview",
			},
			{
				ID:         "12_function_vectors",
				Title:      "Function Vectors & Model Steering",
				Path:       "chapter1_transformer_interp/instructions/pages/12_[1.3.2]_Function_Vectors_&_Model_Steering.md",
				PythonPath: "chapter1_transformer_interp/exercises/part32_function_vectors_and_model_steering/solutions.py",
				Parent:     "1_3_overview",
			},
			{
				ID:         "13_saes",
				Title:      "Interpretability with SAEs",
				Path:       "chapter1_transformer_interp/instructions/pages/13_[1.3.3]_Interpretability_with_SAEs.md",
				PythonPath: "chapter1_transformer_interp/exercises/part33_interp_with_saes/solutions.py",
				Parent:     "1_3_overview",
			},
			{
				ID:        "1_4_overview",
				Title:     "Circuits in LLMs",
				LocalPath: "1_4_circuits_in_llms.md",
				Number:    "1.4",
				IsGroup:   true,
				Children:  []string{"21_ioi", "22_sae_circuits"},
			},
			{
				ID:         "21_ioi",
				Title:      "Indirect Object Identification",
				Path:       "chapter1_transformer_interp/instructions/pages/21_[1.4.1]_Indirect_Object_Identification.md",
				PythonPath: "chapter1_transformer_interp/exercises/part41_indirect_object_identification/solutions.py",
				Parent:     "1_4_overview",
			},
			{
				ID:         "22_sae_circuits",
				Title:      "SAE Circuits",
				Path:       "chapter1_transformer_interp/instructions/pages/22_[1.4.2]_SAE_Circuits.md",
				PythonPath: "chapter1_transformer_interp/exercises/part42_sae_circuits/solutions.py",
				Parent:     "1_4_overview",
			},
			{
				ID:        "1_5_overview",
				Title:     "Toy Models",
				LocalPath: "1_5_toy_models.md",
				Number:    "1.5",
				IsGroup:   true,
				Children:  []string{"31_brackets", "32_grokking", "33_othellogpt", "34_superposition"},
			},
			{
				ID:         "31_brackets",
				Title:      "Balanced Bracket Classifier",
				Path:       "chapter1_transformer_interp/instructions/pages/31_[1.5.1]_Balanced_Bracket_Classifier.md",
				PythonPath: "chapter1_transformer_interp/exercises/part51_balanced_bracket_classifier/solutions.py",
				Parent:     "1_5_overview",
			},
			{
				ID:         "32_grokking",
				Title:      "Grokking & Modular Arithmetic",
				Path:       "chapter1_transformer_interp/instructions/pages/32_[1.5.2]_Grokking_&_Modular_Arithmetic.md",
				PythonPath: "chapter1_transformer_interp/exercises/part52_grokking_and_modular_arithmetic/solutions.py",
				Parent:     "1_5_overview",
			},
			{
				ID:         "33_othellogpt",
				Title:      "OthelloGPT",
				Path:       "chapter1_transformer_interp/instructions/pages/33_[1.5.3]_OthelloGPT.md",
				PythonPath: "chapter1_transformer_interp/exercises/part53_othellogpt/solutions.py",
				Parent:     "1_5_overview",
			},
			{
				ID:         "34_superposition",
				Title:      "Superposition & SAEs",
				Path:       "chapter1_transformer_interp/instructions/pages/34_[1.5.4]_Toy_Models_of_Superposition_&_SAEs.md",
				PythonPath: "chapter1_transformer_interp/exercises/part54_toy_models_of_superposition_and_saes/solutions.py",
				Parent:     "1_5_overview",
			},
			{
				ID:        "1_6_overview",
				Title:     "Case Studies in Larger Models",
				LocalPath: "1_6_case_studies.md",
				Number:    "1.6",
				IsGroup:   true,
				Children:  []string{"41_emergent_misalignment", "42_science_misalignment", "43_eliciting_knowledge", "44_reasoning_models"},
			},
			{
				ID:         "41_emergent_misalignment",
				Title:      "Emergent Misalignment",
				Path:       "chapter1_transformer_interp/instructions/pages/41_[1.6.1]_Emergent_Misalignment.md",
				PythonPath: "chapter1_transformer_interp/exercises/part61_emergent_misalignment/solutions.py",
				Parent:     "1_6_overview",
			},
			{
				ID:         "42_science_misalignment",
				Title:      "Science of Misalignment",
				Path:       "chapter1_transformer_interp/instructions/pages/42_[1.6.2]_Science_of_Misalignment.md",
				PythonPath: "chapter1_transformer_interp/exercises/part62_science_of_misalignment/solutions.py",
				Parent:     "1_6_overview",
			},
			{
				ID:         "43_eliciting_knowledge",
				Title:      "Eliciting Secret Knowledge",
				Path:       "chapter1_transformer_interp/instructions/pages/43_[1.6.3]_Eliciting_Secret_Knowledge.md",
				PythonPath: "chapter1_transformer_interp/exercises/part63_eliciting_secret_knowledge/solutions.py",
				Parent:     "1_6_overview",
			},
			{
				ID:         "44_reasoning_models",
				Title:      "Interpreting Reasoning Models",
				Path:       "chapter1_transformer_interp/instructions/pages/44_[1.6.4]_Interpreting_Reasoning_Models.md",
				PythonPath: "chapter1_transformer_interp/exercises/part64_interpreting_reasoning_models/solutions.py",
				Parent:     "1_6_overview",
			},
		},
	},
	"chapter2_rl": {
		Title:       "Chapter 2: Reinforcement Learning",
		ShortTitle:  "RL",
		Description: "Take a whirlwind tour through RL, starting from tabular learning and Atari, and ending with some of the cutting-edge techniques used in current LLM post-training.",
		Color:       "#D97706",
		Icon:        "gamepad",
		Sections: []Section{
			{
				ID:         "01_intro_rl",
				Title:      "Intro to RL",
				Path:       "chapter2_rl/instructions/pages/01_[2.1]_Intro_to_RL.md",
				PythonPath: "chapter2_rl/exercises/part1_intro_to_rl/solutions.py",
			},
			{
				ID:         "21_dqn",
				Title:      "Deep Q-Networks",
				Path:       "chapter2_rl/instructions/pages/21_[2.2.1]_DQN.md",
				PythonPath: "chapter2_rl/exercises/part21_dqn/solutions.py",
			},
			{
				ID:         "22_vpg",
				Title:      "Vanilla Policy Gradient",
				Path:       "chapter2_rl/instructions/pages/22_[2.2.2]_VPG.md",
				PythonPath: "chapter2_rl/exercises/part22_vpg/solutions.py",
			},
			{
				ID:         "03_ppo",
				Title:      "PPO",
				Path:       "chapter2_rl/instructions/pages/03_[2.3]_PPO.md",
				PythonPath: "chapter2_rl/exercises/part3_ppo/solutions.py",
			},
			{
				ID:         "04_rlhf",
				Title:      "RLHF",
				Path:       "chapter2_rl/instructions/pages/04_[2.4]_RLHF.md",
				PythonPath: "chapter2_rl/exercises/part4_rlhf/solutions.py",
			},
		},
	},
	"chapter3_llm_evals": {
		Title:       "Chapter 3: LLM Evaluations",
		ShortTitle:  "Evals",
		Description: "Learn to build and run evaluations for large language models, including dataset generation and LLM agents.",
		Color:       "#DC2626",
		Icon:        "clipboard-check",
		Sections: []Section{
			{
				ID:         "01_intro_evals",
				Title:      "Intro to Evals",
				Path:       "chapter3_llm_evals/instructions/pages/01_[3.1]_Intro_to_Evals.md",
				PythonPath: "chapter3_llm_evals/exercises/part1_intro_to_evals/solutions.py",
			},
			{
				ID:         "02_dataset_gen",
				Title:      "Dataset Generation",
				Path:       "chapter3_llm_evals/instructions/pages/02_[3.2]_Dataset_Generation.md",
				PythonPath: "chapter3_llm_evals/exercises/part2_dataset_generation/solutions.py",
			},
			{
				ID:         "03_running_evals",
				Title:      "Running Evals with Inspect",
				Path:       "chapter3_llm_evals/instructions/pages/03_[3.3]_Running_Evals_with_Inspect.md",
				PythonPath: "chapter3_llm_evals/exercises/part3_running_evals_with_inspect/solutions.py",
			},
			{
				ID:         "04_llm_agents",
				Title:      "LLM Agents",
				Path:       "chapter3_llm_evals/instructions/pages/04_[3.4]_LLM_Agents.md",
				PythonPath: "chapter3_llm_evals/exercises/part4_llm_agents/solutions.py",
			},
		},
	},
}
